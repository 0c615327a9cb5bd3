package models

import "time"

// Status possíveis de uma tarefa
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Prioridades possíveis de uma tarefa
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Filtros de data limite aceitos no endpoint de listagem
const (
	DueFilterOverdue = "overdue"
	DueFilterDueSoon = "due_soon"
)

// ValidStatuses contém os status aceitos nas validações
var ValidStatuses = map[string]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusDone:       true,
}

// ValidPriorities contém as prioridades aceitas nas validações
var ValidPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// Task representa uma tarefa pessoal de um usuário
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FilterSpec descreve os filtros ativos de uma listagem.
// Statuses vazio significa "sem restrição de status".
type FilterSpec struct {
	Search     string   `json:"search"`
	Statuses   []string `json:"statuses"`
	Priority   string   `json:"priority"`
	DueFilters []string `json:"dueFilters"`
}

// Chaves de ordenação aceitas pelo motor de ordenação
const (
	SortByTitle     = "title"
	SortByPriority  = "priority"
	SortByDueDate   = "due_date"
	SortByCreatedAt = "created_at"
)

// SortSpec descreve a ordenação de uma listagem ou de uma coluna de status
type SortSpec struct {
	Key   string `json:"key"`
	Order string `json:"order"` // "asc" ou "desc"
}

// DefaultSort é a ordenação padrão (mais recentes primeiro)
var DefaultSort = SortSpec{Key: SortByCreatedAt, Order: "desc"}

// StatusCounts agrega as contagens por status sob o filtro de busca ativo,
// independente dos status selecionados no filtro
type StatusCounts struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

// Pagination descreve a página retornada pelo endpoint de listagem
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Tipos de evento de alteração emitidos pelo banco
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// ChangeEvent é uma notificação de alteração na tabela de tarefas.
// Não há garantia de ordem nem de entrega única.
type ChangeEvent struct {
	Action string `json:"action"`
	Row    Task   `json:"row"`
}
