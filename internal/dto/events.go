package dto

type VerifyEmailEvent struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Link     string `json:"link"`
}
