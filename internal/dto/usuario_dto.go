package dto

type CrearUsuarioRequest struct {
	Nombre   string `json:"nombre"   validate:"required"`
	Apellido string `json:"apellido" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Email    string  `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=8"`
	IsAdmin  *bool   `json:"is_admin"`
}

type UsuarioResponse struct {
	ID               string  `json:"id"`
	Nombre           string  `json:"nombre"`
	Apellido         string  `json:"apellido"`
	NombreCompleto   string  `json:"nombre_completo"`
	Email            string  `json:"email"`
	IsAdmin          bool    `json:"is_admin"`
	Activo           bool    `json:"activo"`
	FechaEliminacion *string `json:"fecha_eliminacion"`
}
