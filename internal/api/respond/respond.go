// Package respond centraliza a escrita de respostas JSON e o envelope de erro da API.
package respond

import (
	"encoding/json"
	"net/http"
	"time"

	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
)

// JSON escreve uma resposta de sucesso com o status informado.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error traduz um erro (tipado ou não) para o envelope padrão
// {"error": {"code", "message", "timestamp"}} e o escreve na resposta.
// Erros 5xx são logados com contexto; erros de cliente viram debug.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		log.Error("Erro interno ao atender "+r.Method+" "+r.URL.Path, err)
	} else {
		log.Debug("Requisição rejeitada", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   status,
			"category": category,
		})
	}

	body := domain.ErrorResponse{
		Error: domain.ErrorDetail{
			Code:      status,
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
