package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"gerenciador-tarefas/models"
	"gerenciador-tarefas/utilities"
)

// Ações reportadas ao Slack
const (
	slackActionCreated  = "created"
	slackActionUpdated  = "updated"
	slackActionReminder = "reminder"
)

var slackHTTPClient = &http.Client{Timeout: 10 * time.Second}

// slackNotifyInput é o corpo aceito pelo endpoint de notificação
type slackNotifyInput struct {
	Action string `json:"action"`
	Task   struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Priority    string `json:"priority"`
	} `json:"task"`
	UserEmail    string `json:"user_email"`
	WebhookURL   string `json:"webhookUrl"`
	ReminderTime string `json:"reminder_time"`
}

// SlackNotifyHandler monta a mensagem Block Kit e a envia ao webhook.
// O webhook pode vir no corpo ou da variável SLACK_WEBHOOK_URL.
func SlackNotifyHandler(w http.ResponseWriter, r *http.Request) {
	var input slackNotifyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar corpo da notificação Slack")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	webhookURL := input.WebhookURL
	if webhookURL == "" {
		webhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	if webhookURL == "" {
		utilities.LogError(fmt.Errorf("webhook não configurado"), "Notificação Slack")
		http.Error(w, "Slack Webhook URL não está configurada", http.StatusInternalServerError)
		return
	}

	message := buildSlackMessage(input)

	if err := postSlackMessage(webhookURL, message); err != nil {
		utilities.LogError(err, "Erro ao enviar notificação Slack")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// NotifyTaskAsync dispara a notificação de criação/atualização em uma
// goroutine. Falha de entrega é registrada e absorvida: nunca desfaz nem
// falha a mutação que a originou.
func NotifyTaskAsync(action string, task models.Task, userEmail string) {
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if webhookURL == "" {
		return
	}

	input := slackNotifyInput{Action: action, UserEmail: userEmail}
	input.Task.Title = task.Title
	input.Task.Description = task.Description
	input.Task.Status = task.Status
	input.Task.Priority = task.Priority

	go func() {
		if err := postSlackMessage(webhookURL, buildSlackMessage(input)); err != nil {
			utilities.LogError(err, "Erro na notificação Slack (ignorado)")
		}
	}()
}

// buildSlackMessage monta o payload Block Kit da notificação
func buildSlackMessage(input slackNotifyInput) map[string]interface{} {
	actionText := map[string]string{
		slackActionCreated:  "Tarefa criada",
		slackActionUpdated:  "Tarefa atualizada",
		slackActionReminder: "Lembrete de tarefa",
	}[input.Action]
	if actionText == "" {
		actionText = "Tarefa atualizada"
	}

	emoji := map[string]string{
		slackActionCreated:  "✨",
		slackActionUpdated:  "🔄",
		slackActionReminder: "⏰",
	}[input.Action]

	priorityEmoji := map[string]string{
		models.PriorityHigh:   "🔴",
		models.PriorityMedium: "🟡",
		models.PriorityLow:    "🟢",
	}

	statusText := map[string]string{
		models.StatusTodo:       "A fazer",
		models.StatusInProgress: "Em andamento",
		models.StatusDone:       "Concluída",
	}

	header := fmt.Sprintf("%s %s", emoji, actionText)

	blocks := []map[string]interface{}{
		{
			"type": "header",
			"text": map[string]interface{}{
				"type":  "plain_text",
				"text":  header,
				"emoji": true,
			},
		},
		{
			"type": "section",
			"fields": []map[string]string{
				{"type": "mrkdwn", "text": "*Tarefa:*\n" + input.Task.Title},
				{"type": "mrkdwn", "text": "*Criador:*\n" + input.UserEmail},
				{"type": "mrkdwn", "text": "*Status:*\n" + statusText[input.Task.Status]},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Prioridade:*\n%s %s", priorityEmoji[input.Task.Priority], input.Task.Priority)},
			},
		},
	}

	if input.Action == slackActionReminder && input.ReminderTime != "" {
		blocks = append(blocks, map[string]interface{}{
			"type": "context",
			"elements": []map[string]string{
				{"type": "mrkdwn", "text": "Horário do lembrete: " + input.ReminderTime},
			},
		})
	}

	if input.Task.Description != "" {
		blocks = append(blocks, map[string]interface{}{
			"type": "section",
			"text": map[string]string{
				"type": "mrkdwn",
				"text": "*Descrição:*\n" + input.Task.Description,
			},
		})
	}

	return map[string]interface{}{
		"text":   header,
		"blocks": blocks,
	}
}

// postSlackMessage envia o payload ao webhook do Slack
func postSlackMessage(webhookURL string, message map[string]interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	resp, err := slackHTTPClient.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("Slack API error: %d", resp.StatusCode)
	}
	return nil
}
