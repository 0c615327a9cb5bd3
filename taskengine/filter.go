package taskengine

import (
	"strings"
	"time"

	"gerenciador-tarefas/models"
)

// MatchesFilter é o equivalente em memória do predicado aplicado no
// banco, usado para refiltrar a coleção local quando eventos de
// alteração chegam sem passar por uma nova consulta.
func MatchesFilter(task models.Task, filter models.FilterSpec, now time.Time) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		title := strings.ToLower(task.Title)
		description := strings.ToLower(task.Description)
		if !strings.Contains(title, needle) && !strings.Contains(description, needle) {
			return false
		}
	}

	// Conjunto vazio de status significa "todos os status"
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if task.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}

	return MatchesDueFilters(task, filter.DueFilters, now)
}
