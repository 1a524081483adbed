package workitems

import "math"

// ItemProgress is completed over estimated hours as a rounded percentage.
func ItemProgress(item WorkItem) int {
	estimated := hours(item.EstimatedHours)
	if estimated <= 0 {
		return 0
	}
	return int(math.Round(hours(item.CompletedHours) / estimated * 100))
}

// StoryProgress weighs children by estimate and counts Closed ones as done.
func StoryProgress(children []WorkItem) int {
	var total, closed float64
	for _, child := range children {
		est := hours(child.EstimatedHours)
		total += est
		if child.State == StateClosed {
			closed += est
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(closed / total * 100))
}

func hours(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}
