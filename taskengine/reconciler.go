package taskengine

import (
	"sync"

	"gerenciador-tarefas/models"
)

// Reconciler é o único dono da coleção local de tarefas. Recargas
// completas, mutações otimistas e notificações assíncronas do banco
// convergem aqui; eventos podem chegar fora de ordem ou duplicados e as
// regras de aplicação precisam tolerar isso sem perder nem duplicar
// entradas.
type Reconciler struct {
	mu    sync.Mutex
	tasks []models.Task
}

// NewReconciler cria um reconciliador com a coleção vazia
func NewReconciler() *Reconciler {
	return &Reconciler{tasks: []models.Task{}}
}

// Replace substitui a coleção inteira após uma recarga completa.
// Em caso de falha na recarga o chamador simplesmente não chama Replace,
// preservando o estado anterior.
func (r *Reconciler) Replace(tasks []models.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = make([]models.Task, len(tasks))
	copy(r.tasks, tasks)
}

// Apply mescla um evento de alteração na coleção. Devolve true quando a
// coleção foi de fato modificada.
func (r *Reconciler) Apply(ev models.ChangeEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Action {
	case models.ChangeInsert:
		// Um INSERT duplicado (ex.: eco da própria criação otimista)
		// apenas atualiza a cópia existente
		if idx := r.indexOf(ev.Row.ID); idx >= 0 {
			r.tasks[idx] = ev.Row
			return true
		}
		r.tasks = append([]models.Task{ev.Row}, r.tasks...)
		return true

	case models.ChangeUpdate:
		// UPDATE de tarefa ausente é ignorado: não ressuscitamos
		// entradas já removidas
		if idx := r.indexOf(ev.Row.ID); idx >= 0 {
			r.tasks[idx] = ev.Row
			return true
		}
		return false

	case models.ChangeDelete:
		// Idempotente: remover o que já não existe não altera nada
		if idx := r.indexOf(ev.Row.ID); idx >= 0 {
			r.tasks = append(r.tasks[:idx], r.tasks[idx+1:]...)
			return true
		}
		return false
	}

	return false
}

// Snapshot devolve uma cópia da coleção atual. Os demais componentes só
// enxergam cópias; a fatia interna nunca escapa.
func (r *Reconciler) Snapshot() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]models.Task, len(r.tasks))
	copy(snapshot, r.tasks)
	return snapshot
}

// Len devolve o tamanho atual da coleção
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// indexOf localiza uma tarefa pelo id; o chamador segura o mutex
func (r *Reconciler) indexOf(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
