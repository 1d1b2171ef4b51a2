package services

import (
	"sort"

	"github.com/taskhive/taskhive/internal/constants"
	"github.com/taskhive/taskhive/internal/models"
)

// Renumber recomputes the display order of a collection: higher priority
// first, earlier due date breaking ties, original order breaking the
// rest (stable sort). Serial numbers come out dense, exactly 1..N.
// Pure function, the input slice is not modified.
func Renumber(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := constants.Weight(out[i].Priority), constants.Weight(out[j].Priority)
		if wi != wj {
			return wi > wj
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})

	for i := range out {
		out[i].SerialNumber = i + 1
	}

	return out
}
