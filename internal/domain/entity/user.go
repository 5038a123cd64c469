package entity

import "time"

// Roles válidos para User. El rol gobierna la visibilidad de costos:
// admin y bodeguero ven costos; consulta solo cantidades y estados.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleConsulta  = "consulta"
)

// CanViewCost indica si un rol puede ver campos sensibles de costo.
func CanViewCost(role string) bool {
	return role == RoleAdmin || role == RoleBodeguero
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, consulta
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
