package evo

import "math"

// minScoredSeconds floors elapsed time so short lives are scored on distance.
const minScoredSeconds = 10.0

// Score converts a finished life into a comparable fitness value.
func Score(distance, elapsedSeconds float64) float64 {
	return distance / math.Log10(math.Max(elapsedSeconds, minScoredSeconds))
}
