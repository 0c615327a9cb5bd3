package handlers

import (
	"encoding/json"
	"net/http"

	"gerenciador-tarefas/firebase"
	"gerenciador-tarefas/utilities"
)

// RegisterInput é o corpo esperado no registro de usuário
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SocialLoginInput carrega o ID Token emitido pelo Firebase no cliente
type SocialLoginInput struct {
	IDToken string `json:"id_token"`
}

// RegisterHandler cria o usuário no Firebase Authentication
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar corpo do registro")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.Email == "" || input.Password == "" {
		http.Error(w, "E-mail e senha são obrigatórios", http.StatusBadRequest)
		return
	}

	user, err := firebase.CreateFirebaseUser(input.Email, input.Password, input.DisplayName)
	if err != nil {
		utilities.LogError(err, "Erro ao criar usuário no Firebase")
		http.Error(w, "Erro ao criar usuário", http.StatusInternalServerError)
		return
	}

	utilities.LogInfo("Usuário registrado: %s", user.UID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"uid": user.UID})
}

// FinalizeFirebaseLoginHandler verifica um ID Token do Firebase e
// sincroniza o usuário com a tabela local
func FinalizeFirebaseLoginHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogInfo("Recebida requisição para finalizar login com ID Token do Firebase.")

	var input SocialLoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar corpo da requisição para finalizar login Firebase")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if input.IDToken == "" {
		http.Error(w, "ID Token não fornecido", http.StatusBadRequest)
		return
	}

	token, err := firebase.VerifyUserToken(input.IDToken)
	if err != nil {
		utilities.LogError(err, "Token inválido ao finalizar login")
		http.Error(w, "Token inválido", http.StatusUnauthorized)
		return
	}

	uid, err := firebase.CheckOrCreateUserInPostgres(db, token)
	if err != nil {
		utilities.LogError(err, "Erro ao sincronizar usuário no banco")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"uid": uid})
}

// UserInfoHandler devolve os dados do usuário autenticado
func UserInfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, email := userFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"uid":   uid,
		"email": email,
	})
}
