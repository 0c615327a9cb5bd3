package taskengine

import (
	"sort"

	"gerenciador-tarefas/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Colador para comparação de títulos sensível ao idioma e
// insensível a maiúsculas/minúsculas ("apple" < "Banana" < "Cherry")
var titleCollator = collate.New(language.Portuguese, collate.Loose)

// Peso ordinal das prioridades
var priorityValue = map[string]int{
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
}

// ApplySort devolve uma nova lista ordenada pela chave e direção dadas.
// A lista de entrada nunca é modificada e empates preservam a ordem
// relativa original (ordenação estável).
func ApplySort(tasks []models.Task, spec models.SortSpec) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		// Tarefa sem prazo fica sempre no fim, independente da direção,
		// então esse caso não passa pela inversão asc/desc
		if spec.Key == models.SortByDueDate {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return false
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			}
		}

		diff := compareTasks(a, b, spec.Key)
		if spec.Order == "asc" {
			return diff < 0
		}
		return diff > 0
	})

	return sorted
}

// compareTasks calcula a diferença natural entre duas tarefas para uma chave.
// Negativo significa que a vem antes de b em ordem ascendente.
func compareTasks(a, b models.Task, key string) int {
	switch key {
	case models.SortByTitle:
		return titleCollator.CompareString(a.Title, b.Title)

	case models.SortByPriority:
		return priorityValue[a.Priority] - priorityValue[b.Priority]

	case models.SortByDueDate:
		// Ausência de prazo é resolvida antes, em ApplySort
		return compareInt64(a.DueDate.UnixMilli(), b.DueDate.UnixMilli())

	default: // created_at
		return compareInt64(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli())
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortColumns particiona a lista pelos status e ordena cada coluna com a
// sua própria configuração de ordenação. Colunas sem configuração usam a
// ordenação padrão.
func SortColumns(tasks []models.Task, columnSorts map[string]models.SortSpec) map[string][]models.Task {
	columns := map[string][]models.Task{
		models.StatusTodo:       {},
		models.StatusInProgress: {},
		models.StatusDone:       {},
	}

	for _, task := range tasks {
		columns[task.Status] = append(columns[task.Status], task)
	}

	for status, bucket := range columns {
		spec, ok := columnSorts[status]
		if !ok {
			spec = models.DefaultSort
		}
		columns[status] = ApplySort(bucket, spec)
	}

	return columns
}
