package entity

import "time"

// Operator es una persona que opera el libro (admin, bodeguero o vendedor).
// Su ID viaja en el JWT y queda en CreatedBy de cada movimiento.
type Operator struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
