package add_transaction

import (
	"encoding/json"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/ledger/models"
)

// AddTransactionRequest HTTP request model.
// amount принимается строкой или числом: "250.50" или 250.50
type AddTransactionRequest struct {
	Amount json.Number `json:"amount"`
	Method string      `json:"method"` // cash | upi | card
	Status string      `json:"status,omitempty"`
	Notes  *string     `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AddTransactionRequest) ToServiceRequest(actor domain.Actor) *models.AddTransactionRequest {
	return &models.AddTransactionRequest{
		Actor:  actor,
		Amount: r.Amount.String(),
		Method: r.Method,
		Status: r.Status,
		Notes:  r.Notes,
	}
}
