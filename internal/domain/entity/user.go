package entity

import "time"

// Roles válidos para User. Cajero opera la caja propia; bodeguero registra
// conteos físicos; admin además puede reparar saldos.
const (
	RoleAdmin     = "admin"
	RoleCajero    = "cajero"
	RoleBodeguero = "bodeguero"
)

// User representa un operador del back-office. El core no hace autenticación
// más allá de la comparación de credenciales: quién puede llamar cada
// operación lo decide el middleware HTTP con el rol del token.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, cajero, bodeguero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
