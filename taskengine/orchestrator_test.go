package taskengine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gerenciador-tarefas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource simula o banco: resultados por termo de busca, com
// bloqueio opcional para reproduzir requisições em voo
type fakeSource struct {
	mu            sync.Mutex
	tasksBySearch map[string][]models.Task
	counts        models.StatusCounts
	listErr       error

	gateSearch string
	gate       chan struct{}
	entered    chan struct{}
}

func (f *fakeSource) ListTasks(ctx context.Context, userID string, filter models.FilterSpec) ([]models.Task, error) {
	f.mu.Lock()
	err := f.listErr
	tasks := f.tasksBySearch[filter.Search]
	gate := f.gate
	gateSearch := f.gateSearch
	entered := f.entered
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if gate != nil && filter.Search == gateSearch {
		if entered != nil {
			close(entered)
			f.mu.Lock()
			f.entered = nil
			f.mu.Unlock()
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return tasks, nil
}

func (f *fakeSource) CountByStatus(ctx context.Context, userID, search, priority string) (models.StatusCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return models.StatusCounts{}, f.listErr
	}
	return f.counts, nil
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

func TestOrchestrator_UltimaRequisicaoVence(t *testing.T) {
	f1Task := models.Task{ID: "f1", Title: "resultado antigo"}
	f2Task := models.Task{ID: "f2", Title: "resultado novo"}

	src := &fakeSource{
		tasksBySearch: map[string][]models.Task{"F1": {f1Task}, "F2": {f2Task}},
		gateSearch:    "F1",
		gate:          make(chan struct{}),
		entered:       make(chan struct{}),
	}
	entered := src.entered
	o := NewOrchestrator(src, "u1")

	// F1 fica presa no banco
	staleErr := make(chan error, 1)
	go func() {
		_, err := o.Refresh(context.Background(), models.FilterSpec{Search: "F1"}, models.DefaultSort, 0)
		staleErr <- err
	}()
	<-entered

	// F2 chega antes de F1 terminar
	view, err := o.Refresh(context.Background(), models.FilterSpec{Search: "F2"}, models.DefaultSort, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"f2"}, ids(view.Tasks))

	// O resultado de F1 é descartado e nunca sobrescreve a visão
	require.ErrorIs(t, <-staleErr, ErrStaleRequest)
	close(src.gate)
	assert.Equal(t, []string{"f2"}, ids(o.CurrentView().Tasks))
}

func TestOrchestrator_FalhaPreservaColecaoAnterior(t *testing.T) {
	task := models.Task{ID: "mantida", Title: "tarefa mantida"}
	src := &fakeSource{
		tasksBySearch: map[string][]models.Task{"": {task}},
		counts:        models.StatusCounts{Total: 1, Todo: 1},
	}
	o := NewOrchestrator(src, "u1")

	_, err := o.Refresh(context.Background(), models.FilterSpec{}, models.DefaultSort, 0)
	require.NoError(t, err)

	src.setErr(errors.New("banco indisponível"))
	_, err = o.Refresh(context.Background(), models.FilterSpec{}, models.DefaultSort, 0)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrStaleRequest)

	// Nada de limpar a visão em caso de erro
	assert.Equal(t, []string{"mantida"}, ids(o.CurrentView().Tasks))
}

func TestOrchestrator_ApplyChangeMesclaEventos(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	existing := models.Task{ID: "a", Title: "existente", Status: models.StatusTodo, CreatedAt: base}

	src := &fakeSource{
		tasksBySearch: map[string][]models.Task{"": {existing}},
		counts:        models.StatusCounts{Total: 2, Todo: 2},
	}
	o := NewOrchestrator(src, "u1")

	_, err := o.Refresh(context.Background(), models.FilterSpec{}, models.DefaultSort, 0)
	require.NoError(t, err)

	inserted := models.Task{ID: "b", Title: "inserida", Status: models.StatusTodo, CreatedAt: base.Add(time.Hour)}
	view, err := o.ApplyChange(context.Background(), models.ChangeEvent{Action: models.ChangeInsert, Row: inserted})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, ids(view.Tasks))
	assert.Equal(t, 2, view.StatusCounts.Total)

	// DELETE duplicado: segunda entrega não muda nada
	del := models.ChangeEvent{Action: models.ChangeDelete, Row: inserted}
	view, err = o.ApplyChange(context.Background(), del)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(view.Tasks))

	view, err = o.ApplyChange(context.Background(), del)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(view.Tasks))
}

func TestOrchestrator_EventoForaDoFiltroSaiDaVisao(t *testing.T) {
	base := time.Now()
	matching := models.Task{ID: "m", Title: "relatório mensal", Status: models.StatusTodo, CreatedAt: base}

	src := &fakeSource{
		tasksBySearch: map[string][]models.Task{"relatório": {matching}},
	}
	o := NewOrchestrator(src, "u1")

	_, err := o.Refresh(context.Background(), models.FilterSpec{Search: "relatório"}, models.DefaultSort, 0)
	require.NoError(t, err)

	// UPDATE que tira a tarefa do filtro de busca ativo remove-a da visão
	renamed := matching
	renamed.Title = "outro título"
	view, err := o.ApplyChange(context.Background(), models.ChangeEvent{Action: models.ChangeUpdate, Row: renamed})
	require.NoError(t, err)
	assert.Empty(t, view.Tasks)
}

func TestPaginate(t *testing.T) {
	tasks := make([]models.Task, 13)
	for i := range tasks {
		tasks[i] = models.Task{ID: fmt.Sprintf("t%02d", i)}
	}

	page, pagination := Paginate(tasks, 3, 6)
	require.NotNil(t, pagination)
	assert.Len(t, page, 1)
	assert.Equal(t, 3, pagination.Page)
	assert.Equal(t, 13, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)

	// Página além do fim volta para dentro do intervalo
	page, pagination = Paginate(tasks, 99, 6)
	assert.Equal(t, 3, pagination.Page)
	assert.Len(t, page, 1)

	page, pagination = Paginate(tasks, 0, 6)
	assert.Equal(t, 1, pagination.Page)
	assert.Len(t, page, 6)
	assert.Equal(t, "t00", page[0].ID)

	// Sem linhas: totalPages é 0
	page, pagination = Paginate(nil, 5, 6)
	assert.Empty(t, page)
	assert.Equal(t, 0, pagination.TotalPages)
	assert.Equal(t, 1, pagination.Page)
}
