package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gerenciador-tarefas/database"
	"gerenciador-tarefas/models"
	"gerenciador-tarefas/taskengine"
	"gerenciador-tarefas/utilities"

	"github.com/gorilla/mux"
)

// Formato aceito para datas de prazo ("2026-09-15")
const dueDateLayout = "2006-01-02"

// taskListResponse é o corpo do endpoint de listagem
type taskListResponse struct {
	Tasks        []models.Task       `json:"tasks"`
	StatusCounts models.StatusCounts `json:"statusCounts"`
	Pagination   *models.Pagination  `json:"pagination,omitempty"`
}

// CreateTaskHandler cria uma nova tarefa para o usuário autenticado
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de nova tarefa")

	uid, email := userFromContext(r.Context())

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Priority    string `json:"priority"`
		DueDate     string `json:"due_date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da tarefa")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Título é obrigatório; a validação acontece antes de tocar no banco
	if strings.TrimSpace(input.Title) == "" {
		utilities.LogError(errors.New("título vazio"), "Validação falhou")
		http.Error(w, "O título é obrigatório", http.StatusBadRequest)
		return
	}

	if input.Status == "" {
		input.Status = models.StatusTodo
	}
	if !models.ValidStatuses[input.Status] {
		utilities.LogError(fmt.Errorf("status inválido: %s", input.Status), "Validação falhou")
		http.Error(w, "Status inválido", http.StatusBadRequest)
		return
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.ValidPriorities[input.Priority] {
		utilities.LogError(fmt.Errorf("prioridade inválida: %s", input.Priority), "Validação falhou")
		http.Error(w, "Prioridade inválida", http.StatusBadRequest)
		return
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		UserID:      uid,
	}

	if input.DueDate != "" {
		due, err := time.Parse(dueDateLayout, input.DueDate)
		if err != nil {
			utilities.LogError(err, "Data limite inválida")
			http.Error(w, "Data limite inválida", http.StatusBadRequest)
			return
		}
		task.DueDate = &due
	}

	if err := taskRepo.CreateTask(r.Context(), &task); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Notificação Slack em segundo plano; falha nunca desfaz a criação
	NotifyTaskAsync(slackActionCreated, task, email)

	utilities.LogInfo("Tarefa criada com sucesso: %s (ID: %s)", task.Title, task.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// ListTasksHandler lista as tarefas do usuário com busca, filtros de
// status e de prazo, contagens por status e paginação opcional
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando listagem de tarefas")

	uid, _ := userFromContext(r.Context())
	queryParams := r.URL.Query()

	filter := models.FilterSpec{
		Search:     queryParams.Get("search"),
		Priority:   queryParams.Get("priority"),
		Statuses:   splitParamList(queryParams.Get("statuses")),
		DueFilters: splitParamList(queryParams.Get("dueFilters")),
	}

	// Compatibilidade com o parâmetro singular "status"
	if len(filter.Statuses) == 0 {
		if status := queryParams.Get("status"); status != "" {
			filter.Statuses = []string{status}
		}
	}

	for _, s := range filter.Statuses {
		if !models.ValidStatuses[s] {
			http.Error(w, "Status inválido: "+s, http.StatusBadRequest)
			return
		}
	}
	if filter.Priority != "" && !models.ValidPriorities[filter.Priority] {
		http.Error(w, "Prioridade inválida", http.StatusBadRequest)
		return
	}

	utilities.LogDebug("Buscando tarefas com filtros - busca: %q, status: %v, prazo: %v",
		filter.Search, filter.Statuses, filter.DueFilters)

	tasks, err := taskRepo.ListTasks(r.Context(), uid, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// As contagens ignoram os status selecionados: os totais dos cartões
	// não somem quando um status é desmarcado
	counts, err := taskRepo.CountByStatus(r.Context(), uid, filter.Search, filter.Priority)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Janelas de prazo dependem de "agora", então filtram pós-consulta
	filtered := taskengine.ApplyDueDateFilters(tasks, filter.DueFilters, time.Now())

	response := taskListResponse{Tasks: filtered, StatusCounts: counts}

	if rawPage := queryParams.Get("page"); rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil {
			http.Error(w, "Página inválida", http.StatusBadRequest)
			return
		}
		response.Tasks, response.Pagination = taskengine.Paginate(filtered, page, taskengine.TasksPerPage)
	}

	utilities.LogInfo("Tarefas listadas com sucesso - total: %d", len(response.Tasks))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetTaskHandler devolve uma tarefa do usuário pelo id
func GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFromContext(r.Context())
	taskID := mux.Vars(r)["id"]

	task, err := taskRepo.GetTask(r.Context(), uid, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// UpdateTaskHandler aplica uma atualização parcial em uma tarefa do
// usuário; apenas os campos presentes no corpo são alterados
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando atualização de tarefa")

	uid, email := userFromContext(r.Context())
	taskID := mux.Vars(r)["id"]

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON de atualização")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updates := database.TaskUpdates{
		Title:       input.Title,
		Description: input.Description,
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		http.Error(w, "O título é obrigatório", http.StatusBadRequest)
		return
	}

	if input.Status != nil {
		if !models.ValidStatuses[*input.Status] {
			utilities.LogError(fmt.Errorf("status inválido: %s", *input.Status), "Validação falhou")
			http.Error(w, "Status inválido", http.StatusBadRequest)
			return
		}
		updates.Status = input.Status
	}

	if input.Priority != nil {
		if !models.ValidPriorities[*input.Priority] {
			utilities.LogError(fmt.Errorf("prioridade inválida: %s", *input.Priority), "Validação falhou")
			http.Error(w, "Prioridade inválida", http.StatusBadRequest)
			return
		}
		updates.Priority = input.Priority
	}

	if input.DueDate != nil {
		if *input.DueDate == "" {
			// String vazia remove o prazo
			updates.ClearDueDate = true
		} else {
			due, err := time.Parse(dueDateLayout, *input.DueDate)
			if err != nil {
				utilities.LogError(err, "Data limite inválida")
				http.Error(w, "Data limite inválida", http.StatusBadRequest)
				return
			}
			updates.DueDate = &due
		}
	}

	task, err := taskRepo.UpdateTask(r.Context(), uid, taskID, updates)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	NotifyTaskAsync(slackActionUpdated, *task, email)

	utilities.LogInfo("Tarefa atualizada com sucesso: %s", taskID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// DeleteTaskHandler remove uma tarefa do usuário
func DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando exclusão de tarefa")

	uid, _ := userFromContext(r.Context())
	taskID := mux.Vars(r)["id"]

	if err := taskRepo.DeleteTask(r.Context(), uid, taskID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Tarefa excluída com sucesso: %s", taskID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Tarefa excluída"})
}

// CalendarURLHandler devolve a URL de criação do evento da tarefa no
// Google Calendar. Sem prazo o evento começa agora; a duração é de uma
// hora em ambos os casos.
func CalendarURLHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFromContext(r.Context())
	taskID := mux.Vars(r)["id"]

	task, err := taskRepo.GetTask(r.Context(), uid, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Tarefa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	start := time.Now()
	if task.DueDate != nil {
		start = *task.DueDate
	}
	end := start.Add(time.Hour)

	url := utilities.GenerateGoogleCalendarURL(task.Title, task.Description, start, end)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// splitParamList normaliza uma lista separada por vírgulas da query string
func splitParamList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
