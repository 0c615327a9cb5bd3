package firebase

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"firebase.google.com/go/v4/auth"
)

// CreateFirebaseUser cria um usuário no Firebase Authentication
func CreateFirebaseUser(email, password, displayName string) (*auth.UserRecord, error) {
	ctx := context.Background()
	client := GetAuthClient()

	params := (&auth.UserToCreate{}).
		Email(email).
		EmailVerified(false).
		Password(password).
		DisplayName(displayName).
		Disabled(false)

	user, err := client.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar usuário: %v", err)
	}

	log.Printf("Usuário criado com sucesso: UID = %s\n", user.UID)
	return user, nil
}

// VerifyUserToken valida um ID Token e devolve o token decodificado
func VerifyUserToken(token string) (*auth.Token, error) {
	ctx := context.Background()
	client := GetAuthClient()

	verifiedToken, err := client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar token: %v", err)
	}

	return verifiedToken, nil
}

// CheckOrCreateUserInPostgres garante que o usuário do token exista na
// tabela usuarios e devolve o UID
func CheckOrCreateUserInPostgres(db *sql.DB, token *auth.Token) (string, error) {
	uid := token.UID
	email, _ := token.Claims["email"].(string)
	displayName, _ := token.Claims["name"].(string)

	var dbUID string
	err := db.QueryRow("SELECT firebase_uid FROM usuarios WHERE firebase_uid = $1", uid).Scan(&dbUID)

	switch {
	case err == sql.ErrNoRows:
		// Primeiro acesso: cria o registro local
		log.Printf("Primeiro acesso para UID %s. Criando no PostgreSQL...", uid)
		_, insertErr := db.Exec(
			"INSERT INTO usuarios (firebase_uid, email, display_name) VALUES ($1, $2, $3)",
			uid, email, displayName,
		)
		if insertErr != nil {
			return "", fmt.Errorf("erro ao inserir usuário no DB: %v", insertErr)
		}
		return uid, nil

	case err != nil:
		return "", fmt.Errorf("erro ao buscar usuário no DB: %v", err)

	default:
		return dbUID, nil
	}
}
