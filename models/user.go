package models

// User representa um usuário autenticado via Firebase e sincronizado no Postgres
type User struct {
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
