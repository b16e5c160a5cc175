package directory

import "github.com/shopspring/decimal"

// Customer клиент из реестра пользователей
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Groomer грумер из реестра персонала
type Groomer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

// Pricing тариф услуги для размера питомца
type Pricing struct {
	ID          int64           `json:"id"`
	ServiceID   int64           `json:"service_id"`
	ServiceName string          `json:"service_name"`
	PetSize     string          `json:"pet_size"`
	Price       decimal.Decimal `json:"price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

// ErrorResponse модель ошибки от реестра
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
