package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carrega o código HTTP, a mensagem e o instante do erro.
type ErrorDetail struct {
	Code      int    `json:"code" example:"400"`
	Message   string `json:"message" example:"Email already registered"`
	Timestamp string `json:"timestamp" example:"2025-01-01T12:00:00Z"`
}
