package dto

type CrearClienteRequest struct {
	Nombre          string  `json:"nombre"           validate:"required"`
	Apellido        string  `json:"apellido"         validate:"required"`
	Telefono        *string `json:"telefono"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarClienteRequest struct {
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	Telefono        *string `json:"telefono"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ClienteResponse struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	Telefono        *string `json:"telefono"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	UltimoSaludo    *string `json:"ultimo_saludo"`
	Activo          bool    `json:"activo"`
}
