package dto

type LoginRequest struct {
	ChatID    string `json:"chat_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AuthorizedUserResponse struct {
	ChatID    string `json:"chat_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	AuthDate  int64  `json:"auth_date"`
}
