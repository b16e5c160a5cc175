package add_transaction

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/service/ledger/models"
)

type LedgerService interface {
	AddTransaction(ctx context.Context, bookingID int64, req *models.AddTransactionRequest) (*models.TransactionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
