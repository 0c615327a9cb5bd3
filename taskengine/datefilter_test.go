package taskengine

import (
	"testing"
	"time"

	"gerenciador-tarefas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskWithDue(id, status string, due *time.Time) models.Task {
	return models.Task{ID: id, Title: "tarefa " + id, Status: status, Priority: models.PriorityMedium, DueDate: due}
}

func daysFrom(now time.Time, days int) *time.Time {
	d := now.AddDate(0, 0, days)
	return &d
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyDueDateFilters_Janelas(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)

	a := taskWithDue("A", models.StatusTodo, daysFrom(now, 0))
	b := taskWithDue("B", models.StatusTodo, daysFrom(now, 3))
	c := taskWithDue("C", models.StatusTodo, daysFrom(now, -10))
	d := taskWithDue("D", models.StatusDone, nil)
	tasks := []models.Task{a, b, c, d}

	overdue := ApplyDueDateFilters(tasks, []string{models.DueFilterOverdue}, now)
	assert.Equal(t, []string{"C"}, ids(overdue))

	dueSoon := ApplyDueDateFilters(tasks, []string{models.DueFilterDueSoon}, now)
	assert.Equal(t, []string{"A", "B"}, ids(dueSoon))

	both := ApplyDueDateFilters(tasks, []string{models.DueFilterOverdue, models.DueFilterDueSoon}, now)
	assert.Equal(t, []string{"A", "B", "C"}, ids(both))
}

func TestApplyDueDateFilters_UniaoSemDuplicar(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		taskWithDue("1", models.StatusTodo, daysFrom(now, -1)),
		taskWithDue("2", models.StatusTodo, daysFrom(now, 2)),
		taskWithDue("3", models.StatusTodo, daysFrom(now, 8)),
		taskWithDue("4", models.StatusTodo, nil),
	}

	both := ApplyDueDateFilters(tasks, []string{models.DueFilterOverdue, models.DueFilterDueSoon}, now)
	onlyOverdue := ApplyDueDateFilters(tasks, []string{models.DueFilterOverdue}, now)
	onlySoon := ApplyDueDateFilters(tasks, []string{models.DueFilterDueSoon}, now)

	// A combinação é a união das janelas, sem dupla contagem
	require.Len(t, both, len(onlyOverdue)+len(onlySoon))
	assert.Equal(t, []string{"1", "2"}, ids(both))
}

func TestApplyDueDateFilters_ConjuntoVazioAceitaTudo(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		taskWithDue("1", models.StatusTodo, daysFrom(now, -30)),
		taskWithDue("2", models.StatusTodo, nil),
	}

	result := ApplyDueDateFilters(tasks, nil, now)
	assert.Len(t, result, 2)
}

func TestNormalizeDate_IgnoraHorario(t *testing.T) {
	// Tarefa com prazo hoje à 1h da manhã, consultada às 23h:
	// sem normalização ela apareceria como atrasada
	now := time.Date(2026, 8, 30, 23, 45, 0, 0, time.UTC)
	due := time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)

	assert.False(t, IsOverdue(&due, now))
	assert.True(t, IsDueSoon(&due, now))
}

func TestIsDueSoon_LimiteInclusivo(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	onLimit := daysFrom(now, DueSoonDays)
	pastLimit := daysFrom(now, DueSoonDays+1)

	assert.True(t, IsDueSoon(onLimit, now))
	assert.False(t, IsDueSoon(pastLimit, now))
}

func TestJanelas_SemPrazoNaoEntra(t *testing.T) {
	now := time.Now()
	assert.False(t, IsOverdue(nil, now))
	assert.False(t, IsDueSoon(nil, now))
}
