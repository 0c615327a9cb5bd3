package main

import (
	"log"

	"gerenciador-tarefas/database"
	"gerenciador-tarefas/firebase"
	"gerenciador-tarefas/handlers"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Erro ao carregar o arquivo .env")
	}

	db, err := database.ConnectPostgres()
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	if err := firebase.InitializeFirebase(); err != nil {
		log.Fatalf("Erro ao inicializar Firebase: %v", err)
	}

	listener, err := database.StartChangeListener()
	if err != nil {
		log.Fatalf("Erro ao iniciar listener de notificações: %v", err)
	}
	defer listener.Close()

	handlers.InitHandlers(db, database.NewTaskStore(db), listener)

	LoadRoutes()
}
