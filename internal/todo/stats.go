package todo

import (
	"github.com/tmvuong/todofile/internal/models"
)

// CalculateStats aggregates a collection by priority and completion
// status. Priorities are normalized before counting, so a stored
// mixed-case or absent priority still lands in the right bucket.
func CalculateStats(todos []models.Todo) models.Stats {
	stats := models.Stats{Total: len(todos)}

	for i := range todos {
		switch NormalizePriority(todos[i].Priority) {
		case models.PriorityHigh:
			stats.Priority.High++
		case models.PriorityMedium:
			stats.Priority.Medium++
		case models.PriorityLow:
			stats.Priority.Low++
		}

		if todos[i].Completed {
			stats.Status.Completed++
		} else {
			stats.Status.Pending++
		}
	}

	return stats
}
