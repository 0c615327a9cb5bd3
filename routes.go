package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"gerenciador-tarefas/handlers"
	"gerenciador-tarefas/utilities"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func LoadRoutes() {
	// Inicializar o sistema de logs
	utilities.InitLogger()

	r := mux.NewRouter()

	// Middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)

	// --- Rotas de Autenticação ---
	r.HandleFunc("/auth/register", handlers.RegisterHandler).Methods("POST")
	r.HandleFunc("/auth/finalize-login", handlers.FinalizeFirebaseLoginHandler).Methods("POST")
	r.HandleFunc("/user/info", handlers.AuthMiddleware(handlers.UserInfoHandler)).Methods("GET")

	// --- Rotas de Tarefas (protegidas) ---
	r.HandleFunc("/tasks", handlers.AuthMiddleware(handlers.CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/tasks", handlers.AuthMiddleware(handlers.ListTasksHandler)).Methods("GET")
	r.HandleFunc("/tasks/live", handlers.AuthMiddleware(handlers.LiveTasksHandler)).Methods("GET")
	r.HandleFunc("/tasks/{id}", handlers.AuthMiddleware(handlers.GetTaskHandler)).Methods("GET")
	r.HandleFunc("/tasks/{id}", handlers.AuthMiddleware(handlers.UpdateTaskHandler)).Methods("PATCH")
	r.HandleFunc("/tasks/{id}", handlers.AuthMiddleware(handlers.DeleteTaskHandler)).Methods("DELETE")
	r.HandleFunc("/tasks/{id}/calendar-url", handlers.AuthMiddleware(handlers.CalendarURLHandler)).Methods("GET")

	// --- Notificações Slack ---
	r.HandleFunc("/slack/notify", handlers.SlackNotifyHandler).Methods("POST")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})

	allowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if allowedOriginsEnv == "" {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	} else {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)

	handler := gorillahandlers.CORS(headers, methods, origins)(r)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	utilities.LogInfo("Servidor iniciado na porta %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
