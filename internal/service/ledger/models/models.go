package models

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// AddTransactionRequest запрос на добавление платежа
type AddTransactionRequest struct {
	Actor  domain.Actor
	Amount string // десятичная строка, например "250.00"
	Method string
	Status string // пусто = success
	Notes  *string
}

// TransactionResponse ответ с данными транзакции
type TransactionResponse struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"bookingId"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransactionListResponse ответ со списком транзакций
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// BalanceResponse сверка итога бронирования с платежами
type BalanceResponse struct {
	BookingID int64  `json:"bookingId"`
	Total     string `json:"total"`
	Paid      string `json:"paid"`
	Balance   string `json:"balance"`
}

// FromDomainTransaction конвертирует domain модель в DTO
func FromDomainTransaction(tx *domain.Transaction) *TransactionResponse {
	if tx == nil {
		return nil
	}
	return &TransactionResponse{
		ID:        tx.ID,
		BookingID: tx.BookingID,
		Amount:    tx.Amount.StringFixed(2),
		Method:    string(tx.Method),
		Status:    string(tx.Status),
		Notes:     tx.Notes,
		CreatedAt: tx.CreatedAt,
	}
}

// FromDomainTransactionList конвертирует список domain моделей в DTO
func FromDomainTransactionList(txs []*domain.Transaction) *TransactionListResponse {
	resp := &TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		if txResp := FromDomainTransaction(tx); txResp != nil {
			resp.Transactions = append(resp.Transactions, *txResp)
		}
	}
	return resp
}

// FromDomainBalance конвертирует баланс в DTO
func FromDomainBalance(b domain.Balance) *BalanceResponse {
	return &BalanceResponse{
		BookingID: b.BookingID,
		Total:     b.Total.StringFixed(2),
		Paid:      b.Paid.StringFixed(2),
		Balance:   b.Balance.StringFixed(2),
	}
}
