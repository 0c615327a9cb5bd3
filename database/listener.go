package database

import (
	"encoding/json"
	"sync"
	"time"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/utilities"

	"github.com/lib/pq"
)

// Canal do Postgres usado pelo gatilho da tabela de tarefas
const taskChannel = "tarefas_changes"

// Tamanho do buffer de cada assinante; eventos excedentes são descartados
// (o reconciliador tolera perdas, a próxima recarga completa corrige)
const subscriberBuffer = 16

// ChangeListener consome NOTIFY do Postgres e distribui os eventos de
// alteração aos assinantes do dono correspondente. Não há garantia de
// ordem nem de entrega única; quem consome precisa ser idempotente.
type ChangeListener struct {
	listener *pq.Listener

	mu   sync.Mutex
	subs map[string]map[chan models.ChangeEvent]struct{}
}

// StartChangeListener abre o LISTEN no canal de tarefas e inicia o laço
// de distribuição em segundo plano
func StartChangeListener() (*ChangeListener, error) {
	l := pq.NewListener(ConnectionString(), 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			utilities.LogError(err, "Evento do listener de notificações")
		}
	})

	if err := l.Listen(taskChannel); err != nil {
		l.Close()
		return nil, err
	}

	cl := &ChangeListener{
		listener: l,
		subs:     make(map[string]map[chan models.ChangeEvent]struct{}),
	}
	go cl.loop()

	utilities.LogInfo("Listener de notificações escutando o canal %s", taskChannel)
	return cl, nil
}

// Subscribe registra um assinante para os eventos de um usuário.
// A função devolvida remove a assinatura e fecha o canal; precisa ser
// chamada no encerramento do consumidor.
func (cl *ChangeListener) Subscribe(userID string) (<-chan models.ChangeEvent, func()) {
	ch := make(chan models.ChangeEvent, subscriberBuffer)

	cl.mu.Lock()
	if cl.subs[userID] == nil {
		cl.subs[userID] = make(map[chan models.ChangeEvent]struct{})
	}
	cl.subs[userID][ch] = struct{}{}
	cl.mu.Unlock()

	cancel := func() {
		cl.mu.Lock()
		if set, ok := cl.subs[userID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(cl.subs, userID)
			}
		}
		cl.mu.Unlock()
	}

	return ch, cancel
}

// Close encerra o listener e todas as assinaturas
func (cl *ChangeListener) Close() error {
	cl.mu.Lock()
	for userID, set := range cl.subs {
		for ch := range set {
			close(ch)
		}
		delete(cl.subs, userID)
	}
	cl.mu.Unlock()
	return cl.listener.Close()
}

// loop consome as notificações e as repassa aos assinantes
func (cl *ChangeListener) loop() {
	// Ping periódico para detectar conexões mortas
	ticker := time.NewTicker(90 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-cl.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// Reconexão do listener: notificações podem ter se
				// perdido; os consumidores devem recarregar
				utilities.LogInfo("Listener de notificações reconectado")
				continue
			}
			cl.dispatch(n.Extra)

		case <-ticker.C:
			if err := cl.listener.Ping(); err != nil {
				utilities.LogError(err, "Falha no ping do listener de notificações")
			}
		}
	}
}

// dispatch decodifica o payload do gatilho e o entrega aos assinantes do
// dono da linha. Assinante com buffer cheio perde o evento.
func (cl *ChangeListener) dispatch(payload string) {
	var ev models.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		utilities.LogError(err, "Payload de notificação inválido")
		return
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	for ch := range cl.subs[ev.Row.UserID] {
		select {
		case ch <- ev:
		default:
			utilities.LogDebug("Assinante lento, evento %s descartado", ev.Action)
		}
	}
}
