package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	app        *firebase.App
	authClient *auth.Client
)

// InitializeFirebase carrega as credenciais e prepara o cliente de
// autenticação. Deve ser chamado uma única vez na subida do servidor.
func InitializeFirebase() error {
	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido nas variáveis de ambiente")
	}

	opt := option.WithCredentialsFile(credentialsPath)

	a, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	client, err := a.Auth(context.Background())
	if err != nil {
		return fmt.Errorf("erro ao obter cliente de Auth: %w", err)
	}

	app = a
	authClient = client
	return nil
}

// GetAuthClient devolve o cliente de autenticação já inicializado
func GetAuthClient() *auth.Client {
	return authClient
}
