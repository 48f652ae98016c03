package metrics

import (
	"fmt"
	"math"
)

// roundHalfUp rounds to the nearest integer, halves towards +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return roundHalfUp(x*10) / 10
}

// Percent returns round(100*part/total), or 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(roundHalfUp(100 * float64(part) / float64(total)))
}

// FormatThousands renders a currency total as "$<round(total/1000)>K".
func FormatThousands(total float64) string {
	return fmt.Sprintf("$%dK", int64(roundHalfUp(total/1000)))
}

// FormatMonthly renders an annual amount as "$<round(annual/12)>/mo".
func FormatMonthly(annual float64) string {
	return fmt.Sprintf("$%d/mo", int64(roundHalfUp(annual/12)))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
