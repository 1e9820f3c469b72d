package domain

import (
	"time"
)

// User представляет пользователя системы, таблица users.
// Фильмы ссылаются на владельца через user_id; удаление пользователя,
// на которого ссылается хотя бы один фильм, запрещено на уровне БД.
type User struct {
	ID           string    `json:"id" db:"id"` // UUID
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Не отдаем хеш пароля в JSON
	Role         string    `json:"role,omitempty" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest для регистрации нового пользователя (HTTP)
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginRequest для входа пользователя (HTTP)
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse для ответа при успешном входе (HTTP)
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
