package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"gerenciador-tarefas/database"
	"gerenciador-tarefas/firebase"
	"gerenciador-tarefas/utilities"
)

var (
	db             *sql.DB
	taskRepo       database.TaskRepository
	changeListener *database.ChangeListener
)

// InitHandlers injeta as dependências compartilhadas dos handlers
func InitHandlers(conn *sql.DB, repo database.TaskRepository, listener *database.ChangeListener) {
	db = conn
	taskRepo = repo
	changeListener = listener
}

var errMissingAuth = errors.New("header de autorização ausente")

type contextKey string

// Chaves do contexto preenchidas pelo AuthMiddleware
const (
	ContextUserUID   contextKey = "userUID"
	ContextUserEmail contextKey = "userEmail"
)

// LoggingMiddleware registra informações sobre cada requisição HTTP
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// ResponseWriter personalizado para capturar o status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		utilities.LogRequest(r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, duration)
	})
}

// responseWriter é um wrapper para http.ResponseWriter que captura o status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captura o status code antes de escrevê-lo
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// AuthMiddleware valida o Bearer token do Firebase e coloca o UID e o
// e-mail do usuário no contexto da requisição. Sem usuário autenticado
// nenhuma operação de tarefa é atendida.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utilities.LogError(errMissingAuth, "Autenticação falhou")
			http.Error(w, "Autenticação necessária", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		verifiedToken, err := firebase.VerifyUserToken(tokenString)
		if err != nil {
			utilities.LogError(err, "Token inválido")
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}

		email, _ := verifiedToken.Claims["email"].(string)

		ctx := context.WithValue(r.Context(), ContextUserUID, verifiedToken.UID)
		ctx = context.WithValue(ctx, ContextUserEmail, email)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// userFromContext recupera o UID e o e-mail colocados pelo AuthMiddleware
func userFromContext(ctx context.Context) (uid, email string) {
	uid, _ = ctx.Value(ContextUserUID).(string)
	email, _ = ctx.Value(ContextUserEmail).(string)
	return uid, email
}
