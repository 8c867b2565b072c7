package dto

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type CategoriaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

type CrearSubcategoriaRequest struct {
	Nombre      string `json:"nombre"       validate:"required"`
	CategoriaID string `json:"categoria_id" validate:"required,uuid"`
}

type SubcategoriaResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	CategoriaID string `json:"categoria_id"`
	Activo      bool   `json:"activo"`
}
