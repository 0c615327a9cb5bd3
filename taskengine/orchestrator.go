package taskengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"gerenciador-tarefas/models"
)

// Tamanho fixo de página do endpoint de listagem
const TasksPerPage = 6

// ErrStaleRequest sinaliza que o resultado de uma listagem foi descartado
// porque uma requisição mais nova foi disparada antes dela terminar.
// Não é um erro visível ao usuário.
var ErrStaleRequest = errors.New("requisição de listagem substituída por outra mais recente")

// TaskSource é a capacidade de consulta que o orquestrador consome.
// Toda consulta é obrigatoriamente limitada ao dono informado.
type TaskSource interface {
	ListTasks(ctx context.Context, userID string, filter models.FilterSpec) ([]models.Task, error)
	CountByStatus(ctx context.Context, userID, search, priority string) (models.StatusCounts, error)
}

// View é o resultado entregue à camada de apresentação
type View struct {
	Tasks        []models.Task       `json:"tasks"`
	StatusCounts models.StatusCounts `json:"statusCounts"`
	Pagination   *models.Pagination  `json:"pagination,omitempty"`
}

// Orchestrator sequencia uma atualização de visão: consulta filtrada,
// contagens, pós-filtro de prazo, ordenação e paginação. Garante no
// máximo uma atualização "viva" por consumidor: uma nova chamada de
// Refresh cancela a anterior e o resultado antigo nunca sobrescreve o
// novo ("a última requisição vence").
type Orchestrator struct {
	source TaskSource
	userID string
	rec    *Reconciler

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	lastFilter models.FilterSpec
	lastSort   models.SortSpec
	lastPage   int
	lastCounts models.StatusCounts
}

// NewOrchestrator cria um orquestrador para as tarefas de um usuário
func NewOrchestrator(source TaskSource, userID string) *Orchestrator {
	return &Orchestrator{
		source:   source,
		userID:   userID,
		rec:      NewReconciler(),
		lastSort: models.DefaultSort,
	}
}

// Refresh executa uma atualização completa da visão. page <= 0 desliga a
// paginação. Em caso de falha a coleção anterior é preservada.
func (o *Orchestrator) Refresh(ctx context.Context, filter models.FilterSpec, sortSpec models.SortSpec, page int) (*View, error) {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.generation++
	gen := o.generation
	o.lastFilter = filter
	o.lastSort = sortSpec
	o.lastPage = page
	o.mu.Unlock()

	tasks, err := o.source.ListTasks(ctx, o.userID, filter)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrStaleRequest
		}
		return nil, err
	}

	counts, err := o.source.CountByStatus(ctx, o.userID, filter.Search, filter.Priority)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrStaleRequest
		}
		return nil, err
	}

	filtered := ApplyDueDateFilters(tasks, filter.DueFilters, time.Now())
	sorted := ApplySort(filtered, sortSpec)

	o.mu.Lock()
	defer o.mu.Unlock()

	// Uma requisição mais nova já assumiu; este resultado não pode
	// tocar no estado compartilhado
	if gen != o.generation {
		return nil, ErrStaleRequest
	}

	o.rec.Replace(sorted)
	o.lastCounts = counts

	return o.buildView(sorted, counts, page), nil
}

// ApplyChange mescla uma notificação de alteração na coleção e atualiza
// as contagens. Eventos de inserção/atualização que não satisfazem o
// filtro ativo são tratados como remoção da visão.
func (o *Orchestrator) ApplyChange(ctx context.Context, ev models.ChangeEvent) (*View, error) {
	o.mu.Lock()
	filter := o.lastFilter
	sortSpec := o.lastSort
	page := o.lastPage
	o.mu.Unlock()

	now := time.Now()
	effective := ev
	if ev.Action != models.ChangeDelete && !MatchesFilter(ev.Row, filter, now) {
		effective = models.ChangeEvent{Action: models.ChangeDelete, Row: ev.Row}
	}
	o.rec.Apply(effective)

	// As contagens ficam no banco de propósito: refletem o filtro de
	// busca ativo e não os status selecionados
	counts, err := o.source.CountByStatus(ctx, o.userID, filter.Search, filter.Priority)
	if err != nil {
		return nil, err
	}

	sorted := ApplySort(ApplyDueDateFilters(o.rec.Snapshot(), filter.DueFilters, now), sortSpec)

	o.mu.Lock()
	o.lastCounts = counts
	o.mu.Unlock()

	return o.buildView(sorted, counts, page), nil
}

// CurrentView devolve a visão corrente sem consultar o banco
func (o *Orchestrator) CurrentView() *View {
	o.mu.Lock()
	filter := o.lastFilter
	sortSpec := o.lastSort
	page := o.lastPage
	counts := o.lastCounts
	o.mu.Unlock()

	sorted := ApplySort(ApplyDueDateFilters(o.rec.Snapshot(), filter.DueFilters, time.Now()), sortSpec)
	return o.buildView(sorted, counts, page)
}

func (o *Orchestrator) buildView(tasks []models.Task, counts models.StatusCounts, page int) *View {
	view := &View{Tasks: tasks, StatusCounts: counts}
	if page > 0 {
		view.Tasks, view.Pagination = Paginate(tasks, page, TasksPerPage)
	}
	return view
}

// Paginate fatia a lista já filtrada e ordenada. TotalPages é 0 quando
// não há nenhuma linha; páginas fora do intervalo são trazidas de volta
// para dentro dele.
func Paginate(tasks []models.Task, page, perPage int) ([]models.Task, *models.Pagination) {
	total := len(tasks)
	totalPages := 0
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		return []models.Task{}, &models.Pagination{Page: 1, PerPage: perPage, Total: 0, TotalPages: 0}
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	pageTasks := make([]models.Task, end-start)
	copy(pageTasks, tasks[start:end])

	return pageTasks, &models.Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}
