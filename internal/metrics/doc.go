// Package metrics folds upstream records into the dashboard summaries.
//
// Every function here is pure: callers fetch the inputs, the functions only
// count, sum and average. Nothing is cached or stored.
package metrics
