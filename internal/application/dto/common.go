package dto

// Envelope cuerpo de todas las respuestas JSON de la API.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PageRequest paginación de los listados por carpeta.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Valores por defecto de la paginación.
const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Normalize aplica los valores por defecto: nunca hay skip negativo.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
}

// Skip documentos a saltar para la página pedida.
func (p PageRequest) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}
