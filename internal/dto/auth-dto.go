package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// Result is the response envelope every auth endpoint returns.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
