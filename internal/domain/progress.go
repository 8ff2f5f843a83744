package domain

import "math"

// Progress derives a todo's completion percentage from its subtasks.
// An empty set yields 0. Otherwise the completed fraction is scaled to
// 0-100 and rounded half away from zero, so 1 of 2 completed is 50 and
// 2 of 3 completed is 67.
func Progress(subtasks []SubTask) int {
	if len(subtasks) == 0 {
		return 0
	}
	completed := 0
	for _, st := range subtasks {
		if st.IsCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(subtasks)) * 100))
}
