package models

// User представляет профиль пользователя площадки.
type User struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email,omitempty"`
	Role   string   `json:"role,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
}

// LoginInput - учётные данные для входа.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session описывает текущую сессию клиента.
type Session struct {
	UserID        string `json:"userId"`
	Authenticated bool   `json:"authenticated"`
}
