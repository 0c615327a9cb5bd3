package handlers

import (
	"errors"
	"net/http"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/taskengine"
	"gerenciador-tarefas/utilities"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// A origem já é controlada pelo CORS das rotas HTTP
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveRequest é o estado de visão enviado pelo cliente: filtros,
// ordenação e página correntes
type liveRequest struct {
	Search     string   `json:"search"`
	Statuses   []string `json:"statuses"`
	Priority   string   `json:"priority"`
	DueFilters []string `json:"dueFilters"`
	SortKey    string   `json:"sortKey"`
	SortOrder  string   `json:"sortOrder"`
	Page       int      `json:"page"`
}

// liveError é enviado ao cliente quando uma recarga falha; a visão
// anterior permanece válida
type liveError struct {
	Error string `json:"error"`
}

// LiveTasksHandler mantém uma visão de tarefas viva sobre websocket.
// Cada mensagem do cliente dispara uma recarga com o novo estado de
// filtro/ordenação/página; eventos de alteração do banco são mesclados
// na coleção e a visão atualizada é empurrada de volta. A assinatura de
// eventos é liberada no encerramento da conexão.
func LiveTasksHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utilities.LogError(err, "Erro ao abrir websocket")
		return
	}
	defer conn.Close()

	orch := taskengine.NewOrchestrator(taskRepo, uid)

	events, unsubscribe := changeListener.Subscribe(uid)
	defer unsubscribe()

	utilities.LogInfo("Visão ao vivo aberta para o usuário %s", uid)

	// Leitura do cliente em goroutine própria; as escritas acontecem
	// somente no laço principal
	requests := make(chan liveRequest)
	readerDone := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(readerDone)
		for {
			var req liveRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			select {
			case requests <- req:
			case <-stop:
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		select {
		case <-readerDone:
			utilities.LogInfo("Visão ao vivo encerrada para o usuário %s", uid)
			return

		case req := <-requests:
			filter := models.FilterSpec{
				Search:     req.Search,
				Statuses:   req.Statuses,
				Priority:   req.Priority,
				DueFilters: req.DueFilters,
			}
			sortSpec := models.DefaultSort
			if req.SortKey != "" {
				sortSpec = models.SortSpec{Key: req.SortKey, Order: req.SortOrder}
			}

			view, err := orch.Refresh(ctx, filter, sortSpec, req.Page)
			if errors.Is(err, taskengine.ErrStaleRequest) {
				// Resultado descartado: uma requisição mais nova venceu
				continue
			}
			if err != nil {
				utilities.LogError(err, "Erro na recarga da visão ao vivo")
				conn.WriteJSON(liveError{Error: err.Error()})
				continue
			}
			if err := conn.WriteJSON(view); err != nil {
				return
			}

		case ev, ok := <-events:
			if !ok {
				return
			}
			view, err := orch.ApplyChange(ctx, ev)
			if err != nil {
				utilities.LogError(err, "Erro ao aplicar evento na visão ao vivo")
				continue
			}
			if err := conn.WriteJSON(view); err != nil {
				return
			}
		}
	}
}
