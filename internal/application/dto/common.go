package dto

// PageRequest paginación y orden de los listados (page base 0).
type PageRequest struct {
	Page          int    `query:"page" json:"page" validate:"min=0"`
	Size          int    `query:"size" json:"size" validate:"min=0,max=100"`
	SortBy        string `query:"sortBy" json:"sortBy"`
	SortDirection string `query:"sortDirection" json:"sortDirection" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// DefaultPage aplica el tamaño por defecto si Size es cero.
func (p *PageRequest) DefaultPage() {
	if p.Size <= 0 {
		p.Size = 20
	}
	if p.Page < 0 {
		p.Page = 0
	}
}

// Offset desplazamiento equivalente a la página.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(p PageRequest, total int64) PageResponse {
	var pages int64
	if p.Size > 0 {
		pages = (total + int64(p.Size) - 1) / int64(p.Size)
	}
	return PageResponse{Page: p.Page, Size: p.Size, Total: total, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail error de validación de un campo.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
