package user

type loginInput struct {
	Body LoginRequest
}

// LoginRequest - тело запроса входа в формате Strapi
type LoginRequest struct {
	Identifier string `json:"identifier" minLength:"1" doc:"Имя пользователя или email"`
	Password   string `json:"password" minLength:"1"`
}

type registerInput struct {
	Body RegisterRequest
}

type RegisterRequest struct {
	Username string `json:"username" minLength:"1"`
	Email    string `json:"email" minLength:"1"`
	Password string `json:"password" minLength:"1"`
}

type authOutput struct {
	Body AuthResponse
}

type AuthResponse struct {
	JWT  string       `json:"jwt"`
	User UserResponse `json:"user"`
}

type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
