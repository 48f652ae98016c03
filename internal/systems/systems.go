// Package systems serves the business-function catalogue shown on the
// systems map page.
package systems

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

const defaultVersion = "1.0.0"

type Goal struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description" json:"description"`
	SuccessMetric string `yaml:"success_metric" json:"success_metric"`
	Target        string `yaml:"target" json:"target"`
}

// Function is one stage of the business, from marketing to finance.
type Function struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Sequence    int      `yaml:"sequence" json:"sequence"`
	Description string   `yaml:"description" json:"description"`
	Goal        Goal     `yaml:"goal" json:"goal"`
	TaskIDs     []string `yaml:"task_ids" json:"task_ids"`
	AssetIDs    []string `yaml:"asset_ids" json:"asset_ids"`
	KPIIDs      []string `yaml:"kpi_ids" json:"kpi_ids"`
}

type Task struct {
	ID           string   `yaml:"id" json:"id"`
	Code         string   `yaml:"code" json:"code"`
	Name         string   `yaml:"name" json:"name"`
	FunctionID   string   `yaml:"function_id" json:"function_id"`
	Description  string   `yaml:"description" json:"description"`
	Output       string   `yaml:"output" json:"output"`
	AssetIDs     []string `yaml:"asset_ids,omitempty" json:"asset_ids,omitempty"`
	TimeEstimate string   `yaml:"time_estimate,omitempty" json:"time_estimate,omitempty"`
	Frequency    string   `yaml:"frequency,omitempty" json:"frequency,omitempty"`
}

type Asset struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Category    string   `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
	FunctionIDs []string `yaml:"function_ids" json:"function_ids"`
}

type FlowStep struct {
	TaskID      string `yaml:"task_id" json:"task_id"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type ProcessFlow struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Sequence    []FlowStep `yaml:"sequence" json:"sequence"`
}

// Catalog is the whole systems document.
type Catalog struct {
	Version      string        `yaml:"version" json:"version"`
	LastUpdated  string        `yaml:"last_updated" json:"last_updated"`
	Functions    []Function    `yaml:"functions" json:"functions"`
	Tasks        []Task        `yaml:"tasks" json:"tasks"`
	Assets       []Asset       `yaml:"assets" json:"assets"`
	ProcessFlows []ProcessFlow `yaml:"process_flows" json:"process_flows"`
}

// Parse decodes a catalogue. A missing version defaults to 1.0.0, a missing
// last_updated to today's date, and missing lists to empty ones.
func Parse(r io.Reader, today time.Time) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode systems catalog: %w", err)
	}

	if c.Version == "" {
		c.Version = defaultVersion
	}
	if c.LastUpdated == "" {
		c.LastUpdated = today.Format(time.DateOnly)
	}
	if c.Functions == nil {
		c.Functions = []Function{}
	}
	if c.Tasks == nil {
		c.Tasks = []Task{}
	}
	if c.Assets == nil {
		c.Assets = []Asset{}
	}
	if c.ProcessFlows == nil {
		c.ProcessFlows = []ProcessFlow{}
	}
	return &c, nil
}

// Load reads the catalogue at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(bytes.NewReader(embedded), time.Now())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open systems catalog: %w", err)
	}
	defer f.Close()
	return Parse(f, time.Now())
}

// TasksFor returns the tasks of a function in catalogue order.
func (c *Catalog) TasksFor(functionID string) []Task {
	var out []Task
	for _, t := range c.Tasks {
		if t.FunctionID == functionID {
			out = append(out, t)
		}
	}
	return out
}
