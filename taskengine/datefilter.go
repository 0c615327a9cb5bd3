// Package taskengine implementa a lógica central do gerenciador:
// classificação por janela de prazo, ordenação, agregação de visões e
// reconciliação da coleção local de tarefas.
package taskengine

import (
	"time"

	"gerenciador-tarefas/models"
)

// Quantidade de dias à frente considerada "prazo próximo" (inclusivo)
const DueSoonDays = 5

// NormalizeDate zera horas, minutos e segundos de uma data.
// A comparação de prazos é feita por dia de calendário; sem a
// normalização, tarefas criadas à noite escapariam das janelas.
func NormalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// IsOverdue informa se o prazo está estritamente antes de hoje.
// Tarefa sem prazo nunca está atrasada.
func IsOverdue(dueDate *time.Time, now time.Time) bool {
	if dueDate == nil {
		return false
	}
	return NormalizeDate(*dueDate).Before(NormalizeDate(now))
}

// IsDueSoon informa se o prazo está no intervalo inclusivo
// [hoje, hoje + DueSoonDays dias]. Tarefa sem prazo não entra na janela.
func IsDueSoon(dueDate *time.Time, now time.Time) bool {
	if dueDate == nil {
		return false
	}
	d := NormalizeDate(*dueDate)
	today := NormalizeDate(now)
	limit := today.AddDate(0, 0, DueSoonDays)
	return !d.Before(today) && !d.After(limit)
}

// MatchesDueFilters verifica se uma tarefa satisfaz o conjunto de filtros
// de prazo. Conjunto vazio aceita qualquer tarefa; com os dois filtros
// ativos a combinação é uma união (OU lógico), não interseção.
func MatchesDueFilters(task models.Task, dueFilters []string, now time.Time) bool {
	if len(dueFilters) == 0 {
		return true
	}

	overdue := false
	dueSoon := false
	for _, f := range dueFilters {
		switch f {
		case models.DueFilterOverdue:
			overdue = true
		case models.DueFilterDueSoon:
			dueSoon = true
		}
	}

	if overdue && IsOverdue(task.DueDate, now) {
		return true
	}
	if dueSoon && IsDueSoon(task.DueDate, now) {
		return true
	}
	return false
}

// ApplyDueDateFilters filtra a lista pelas janelas de prazo ativas.
// A janela é relativa a "agora", por isso roda em memória depois da
// consulta ao banco. A lista de entrada não é modificada.
func ApplyDueDateFilters(tasks []models.Task, dueFilters []string, now time.Time) []models.Task {
	if len(dueFilters) == 0 {
		return tasks
	}

	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if MatchesDueFilters(task, dueFilters, now) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}
