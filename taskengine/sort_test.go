package taskengine

import (
	"testing"
	"time"

	"gerenciador-tarefas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySort_TituloSensivelAoIdioma(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "Banana"},
		{ID: "2", Title: "apple"},
		{ID: "3", Title: "Cherry"},
	}

	sorted := ApplySort(tasks, models.SortSpec{Key: models.SortByTitle, Order: "asc"})

	titles := []string{sorted[0].Title, sorted[1].Title, sorted[2].Title}
	assert.Equal(t, []string{"apple", "Banana", "Cherry"}, titles)
}

func TestApplySort_SemPrazoFicaNoFim(t *testing.T) {
	now := time.Now()
	withDue := taskWithDue("com-prazo", models.StatusTodo, daysFrom(now, 2))
	withoutDue := taskWithDue("sem-prazo", models.StatusTodo, nil)

	for _, order := range []string{"asc", "desc"} {
		sorted := ApplySort([]models.Task{withoutDue, withDue}, models.SortSpec{Key: models.SortByDueDate, Order: order})
		assert.Equal(t, "com-prazo", sorted[0].ID, "ordem %s", order)
		assert.Equal(t, "sem-prazo", sorted[1].ID, "ordem %s", order)
	}
}

func TestApplySort_Prioridade(t *testing.T) {
	tasks := []models.Task{
		{ID: "baixa", Priority: models.PriorityLow},
		{ID: "alta", Priority: models.PriorityHigh},
		{ID: "media", Priority: models.PriorityMedium},
	}

	desc := ApplySort(tasks, models.SortSpec{Key: models.SortByPriority, Order: "desc"})
	assert.Equal(t, []string{"alta", "media", "baixa"}, ids(desc))

	asc := ApplySort(tasks, models.SortSpec{Key: models.SortByPriority, Order: "asc"})
	assert.Equal(t, []string{"baixa", "media", "alta"}, ids(asc))
}

func TestApplySort_CriacaoEEstabilidade(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "1", Priority: models.PriorityMedium, CreatedAt: base.Add(time.Hour)},
		{ID: "2", Priority: models.PriorityMedium, CreatedAt: base},
		{ID: "3", Priority: models.PriorityMedium, CreatedAt: base.Add(2 * time.Hour)},
	}

	sorted := ApplySort(tasks, models.SortSpec{Key: models.SortByCreatedAt, Order: "desc"})
	assert.Equal(t, []string{"3", "1", "2"}, ids(sorted))

	// Empate total: a ordem relativa de entrada é preservada
	tied := ApplySort(tasks, models.SortSpec{Key: models.SortByPriority, Order: "desc"})
	assert.Equal(t, []string{"1", "2", "3"}, ids(tied))
}

func TestApplySort_NaoModificaAEntrada(t *testing.T) {
	tasks := []models.Task{
		{ID: "b", Title: "b"},
		{ID: "a", Title: "a"},
	}

	_ = ApplySort(tasks, models.SortSpec{Key: models.SortByTitle, Order: "asc"})

	assert.Equal(t, []string{"b", "a"}, ids(tasks))
}

func TestSortColumns_OrdenacaoIndependentePorColuna(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		{ID: "t1", Title: "Zebra", Status: models.StatusTodo, Priority: models.PriorityLow, CreatedAt: now},
		{ID: "t2", Title: "Abelha", Status: models.StatusTodo, Priority: models.PriorityHigh, CreatedAt: now.Add(time.Minute)},
		{ID: "p1", Title: "Casa", Status: models.StatusInProgress, Priority: models.PriorityMedium, CreatedAt: now},
		{ID: "d1", Title: "Dado", Status: models.StatusDone, Priority: models.PriorityLow, CreatedAt: now},
		{ID: "d2", Title: "Copo", Status: models.StatusDone, Priority: models.PriorityHigh, CreatedAt: now.Add(time.Hour)},
	}

	columns := SortColumns(tasks, map[string]models.SortSpec{
		models.StatusTodo: {Key: models.SortByTitle, Order: "asc"},
		models.StatusDone: {Key: models.SortByPriority, Order: "desc"},
	})

	require.Len(t, columns, 3)
	assert.Equal(t, []string{"t2", "t1"}, ids(columns[models.StatusTodo]))
	assert.Equal(t, []string{"d2", "d1"}, ids(columns[models.StatusDone]))
	// Coluna sem configuração usa a ordenação padrão (criação decrescente)
	assert.Equal(t, []string{"p1"}, ids(columns[models.StatusInProgress]))
}
