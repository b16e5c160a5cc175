package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	MethodCash  PaymentMethod = "cash"
	MethodUPI   PaymentMethod = "upi"
	MethodCard  PaymentMethod = "card"
	MethodOther PaymentMethod = "other"
)

// TransactionStatus статус платежной транзакции
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionPending TransactionStatus = "pending"
	TransactionFailed  TransactionStatus = "failed"
)

// Transaction append-only payment record linked to a booking
type Transaction struct {
	ID        int64
	BookingID int64
	Amount    decimal.Decimal
	Method    PaymentMethod
	Status    TransactionStatus
	Notes     *string
	CreatedAt time.Time
}

// CountsTowardsPaid returns true if the amount is included in the paid sum
func (t *Transaction) CountsTowardsPaid() bool {
	return t.Status != TransactionFailed
}

// Balance reconciliation of a booking total against its transactions
type Balance struct {
	BookingID int64
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Balance   decimal.Decimal // total - paid, со знаком
}

// NewBalance computes paid and signed balance
func NewBalance(bookingID int64, total decimal.Decimal, txs []*Transaction) Balance {
	paid := decimal.Zero
	for _, tx := range txs {
		if tx.CountsTowardsPaid() {
			paid = paid.Add(tx.Amount)
		}
	}
	return Balance{
		BookingID: bookingID,
		Total:     total,
		Paid:      paid,
		Balance:   total.Sub(paid),
	}
}
