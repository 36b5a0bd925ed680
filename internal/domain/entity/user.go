package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin       = "admin"
	RoleAlmacenista = "almacenista"
	RoleConsulta    = "consulta"
)

// User usuario de la aplicación.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"` // active | disabled
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableStats estadística de cambios por tabla. RowCount es una caché
// que se invalida (NULL) en cada escritura confirmada.
type TableStats struct {
	TableName    string    `json:"table_name"`
	LastChangeAt time.Time `json:"last_change_at"`
	RowCount     *int64    `json:"row_count"`
}
