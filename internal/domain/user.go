package domain

import "time"

// User representa una cuenta registrada. El hash de contraseña
// nunca se serializa ni se escribe en logs.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
