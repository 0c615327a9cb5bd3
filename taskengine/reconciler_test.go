package taskengine

import (
	"testing"

	"gerenciador-tarefas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_InsertPrependEDeduplicacao(t *testing.T) {
	r := NewReconciler()
	r.Replace([]models.Task{{ID: "antiga", Title: "antiga"}})

	nova := models.Task{ID: "nova", Title: "nova"}
	r.Apply(models.ChangeEvent{Action: models.ChangeInsert, Row: nova})

	snapshot := r.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "nova", snapshot[0].ID)

	// INSERT duplicado (eco da criação otimista) não duplica a entrada
	r.Apply(models.ChangeEvent{Action: models.ChangeInsert, Row: nova})
	assert.Equal(t, 2, r.Len())
}

func TestReconciler_UpdateAusenteNaoRessuscita(t *testing.T) {
	r := NewReconciler()
	r.Replace([]models.Task{{ID: "x", Title: "x"}})

	changed := r.Apply(models.ChangeEvent{
		Action: models.ChangeUpdate,
		Row:    models.Task{ID: "fantasma", Title: "fantasma"},
	})

	assert.False(t, changed)
	assert.Equal(t, 1, r.Len())
}

func TestReconciler_DeleteIdempotente(t *testing.T) {
	r := NewReconciler()
	r.Replace([]models.Task{{ID: "a"}, {ID: "b"}})

	ev := models.ChangeEvent{Action: models.ChangeDelete, Row: models.Task{ID: "a"}}

	assert.True(t, r.Apply(ev))
	first := r.Snapshot()

	// Entrega duplicada: a segunda aplicação não altera nada
	assert.False(t, r.Apply(ev))
	assert.Equal(t, first, r.Snapshot())
}

func TestReconciler_OrdemDeChegadaIndiferente(t *testing.T) {
	final := models.Task{ID: "x", Title: "título final", Status: models.StatusDone}

	insert := models.ChangeEvent{Action: models.ChangeInsert, Row: final}
	update := models.ChangeEvent{Action: models.ChangeUpdate, Row: final}

	// INSERT antes de UPDATE
	r1 := NewReconciler()
	r1.Apply(insert)
	r1.Apply(update)

	// UPDATE antes de INSERT (reordenação de rede)
	r2 := NewReconciler()
	r2.Apply(update)
	r2.Apply(insert)

	for _, r := range []*Reconciler{r1, r2} {
		snapshot := r.Snapshot()
		require.Len(t, snapshot, 1)
		assert.Equal(t, final, snapshot[0])
	}
}

func TestReconciler_SnapshotECopia(t *testing.T) {
	r := NewReconciler()
	r.Replace([]models.Task{{ID: "a", Title: "original"}})

	snapshot := r.Snapshot()
	snapshot[0].Title = "alterado fora"

	assert.Equal(t, "original", r.Snapshot()[0].Title)
}
