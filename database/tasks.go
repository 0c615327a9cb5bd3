package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/utilities"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// TaskRepository define as operações de tarefas sobre o banco.
// Toda operação recebe o usuario_id do chamador autenticado e é
// impossível consultar tarefas de outro dono por esta interface.
type TaskRepository interface {
	ListTasks(ctx context.Context, userID string, filter models.FilterSpec) ([]models.Task, error)
	CountByStatus(ctx context.Context, userID, search, priority string) (models.StatusCounts, error)
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, userID, taskID string, updates TaskUpdates) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// TaskUpdates carrega os campos de uma atualização parcial; ponteiro nil
// significa "não alterar". ClearDueDate remove o prazo.
type TaskUpdates struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

// TaskStore implementa TaskRepository sobre o PostgreSQL
type TaskStore struct {
	db *sql.DB
}

var _ TaskRepository = (*TaskStore)(nil)

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = "id, title, descricao, status, prioridade, data_limite, usuario_id, created_at, updated_at"

// ListTasks busca as tarefas do usuário aplicando busca textual,
// conjunto de status e prioridade no próprio banco, ordenadas por data
// de criação decrescente. O filtro de prazo é relativo a "agora" e roda
// depois, em memória (taskengine.ApplyDueDateFilters).
func (s *TaskStore) ListTasks(ctx context.Context, userID string, filter models.FilterSpec) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tarefas WHERE usuario_id = $1"
	params := []interface{}{userID}
	paramCount := 2

	// Busca textual: título OU descrição, sem diferenciar maiúsculas
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR descricao ILIKE $%d)", paramCount, paramCount)
		params = append(params, "%"+filter.Search+"%")
		paramCount++
	}

	// Conjunto vazio de status significa "sem restrição"
	if len(filter.Statuses) > 0 {
		query += fmt.Sprintf(" AND status = ANY($%d)", paramCount)
		params = append(params, pq.Array(filter.Statuses))
		paramCount++
	}

	if filter.Priority != "" {
		query += fmt.Sprintf(" AND prioridade = $%d", paramCount)
		params = append(params, filter.Priority)
		paramCount++
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar tarefas no banco de dados")
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			utilities.LogError(err, "Erro ao ler resultado da query de tarefas")
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// CountByStatus calcula o total e as contagens por status sob o filtro
// de busca ativo. As quatro consultas rodam em paralelo e falham juntas:
// nenhuma contagem parcial é devolvida.
func (s *TaskStore) CountByStatus(ctx context.Context, userID, search, priority string) (models.StatusCounts, error) {
	var counts models.StatusCounts

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.countTasks(ctx, userID, search, priority, "", &counts.Total) })
	g.Go(func() error { return s.countTasks(ctx, userID, search, priority, models.StatusTodo, &counts.Todo) })
	g.Go(func() error { return s.countTasks(ctx, userID, search, priority, models.StatusInProgress, &counts.InProgress) })
	g.Go(func() error { return s.countTasks(ctx, userID, search, priority, models.StatusDone, &counts.Done) })

	if err := g.Wait(); err != nil {
		utilities.LogError(err, "Erro ao contar tarefas por status")
		return models.StatusCounts{}, err
	}
	return counts, nil
}

// countTasks executa uma contagem com o mesmo predicado da listagem,
// opcionalmente restrita a um único status
func (s *TaskStore) countTasks(ctx context.Context, userID, search, priority, status string, dest *int) error {
	query := "SELECT COUNT(*) FROM tarefas WHERE usuario_id = $1"
	params := []interface{}{userID}
	paramCount := 2

	if search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR descricao ILIKE $%d)", paramCount, paramCount)
		params = append(params, "%"+search+"%")
		paramCount++
	}

	if priority != "" {
		query += fmt.Sprintf(" AND prioridade = $%d", paramCount)
		params = append(params, priority)
		paramCount++
	}

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", paramCount)
		params = append(params, status)
		paramCount++
	}

	return s.db.QueryRowContext(ctx, query, params...).Scan(dest)
}

// GetTask busca uma tarefa do usuário pelo id
func (s *TaskStore) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tarefas WHERE id = $1 AND usuario_id = $2",
		taskID, userID)
	return scanTask(row)
}

// CreateTask insere uma nova tarefa. O id e os timestamps são
// atribuídos aqui; o chamador preenche os demais campos.
func (s *TaskStore) CreateTask(ctx context.Context, task *models.Task) error {
	task.ID = uuid.NewString()
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `INSERT INTO tarefas (id, title, descricao, status, prioridade, data_limite, usuario_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullableTime(task.DueDate),
		task.UserID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		utilities.LogError(err, "Erro ao inserir tarefa no banco de dados")
	}
	return err
}

// UpdateTask aplica uma atualização parcial; somente os campos
// informados mudam e updated_at é sempre renovado. Devolve a tarefa
// atualizada ou sql.ErrNoRows quando ela não pertence ao usuário.
func (s *TaskStore) UpdateTask(ctx context.Context, userID, taskID string, updates TaskUpdates) (*models.Task, error) {
	query := "UPDATE tarefas SET "
	params := []interface{}{}
	paramCount := 1

	if updates.Title != nil {
		query += fmt.Sprintf("title = $%d, ", paramCount)
		params = append(params, *updates.Title)
		paramCount++
	}

	if updates.Description != nil {
		query += fmt.Sprintf("descricao = $%d, ", paramCount)
		params = append(params, *updates.Description)
		paramCount++
	}

	if updates.Status != nil {
		query += fmt.Sprintf("status = $%d, ", paramCount)
		params = append(params, *updates.Status)
		paramCount++
	}

	if updates.Priority != nil {
		query += fmt.Sprintf("prioridade = $%d, ", paramCount)
		params = append(params, *updates.Priority)
		paramCount++
	}

	if updates.ClearDueDate {
		query += "data_limite = NULL, "
	} else if updates.DueDate != nil {
		query += fmt.Sprintf("data_limite = $%d, ", paramCount)
		params = append(params, *updates.DueDate)
		paramCount++
	}

	query += fmt.Sprintf("updated_at = $%d", paramCount)
	params = append(params, time.Now().UTC())
	paramCount++

	query += " WHERE id = $" + strconv.Itoa(paramCount)
	params = append(params, taskID)
	paramCount++

	query += " AND usuario_id = $" + strconv.Itoa(paramCount)
	params = append(params, userID)

	query += " RETURNING " + taskColumns

	task, err := scanTask(s.db.QueryRowContext(ctx, query, params...))
	if err != nil {
		if err != sql.ErrNoRows {
			utilities.LogError(err, "Erro ao atualizar tarefa no banco de dados")
		}
		return nil, err
	}
	return task, nil
}

// DeleteTask remove uma tarefa do usuário; remover o que não existe não
// é erro
func (s *TaskStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM tarefas WHERE id = $1 AND usuario_id = $2", taskID, userID)
	if err != nil {
		utilities.LogError(err, "Erro ao excluir tarefa do banco de dados")
	}
	return err
}

// rowScanner cobre *sql.Row e *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var description sql.NullString
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID, &task.Title, &description, &task.Status, &task.Priority,
		&dueDate, &task.UserID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if dueDate.Valid {
		d := dueDate.Time
		task.DueDate = &d
	}
	return &task, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
