package dto

// PageRequest ist die Paginierung für Listen-Endpunkte.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage setzt Standardwerte, wenn Limit/Offset fehlen.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse sind Seitenmetadaten in Antworten.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse ist der HTTP-Fehlerkörper.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CountResponse meldet die Anzahl betroffener Einträge (z. B. freigegebene
// Reservierungen).
type CountResponse struct {
	Count int `json:"count"`
}
