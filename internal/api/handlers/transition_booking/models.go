package transition_booking

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

// TransitionRequest HTTP request model: код, который клиент сообщает грумеру
type TransitionRequest struct {
	OTP string `json:"otp"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *TransitionRequest) ToServiceRequest(actor domain.Actor) *models.TransitionRequest {
	return &models.TransitionRequest{
		Actor: actor,
		OTP:   r.OTP,
	}
}
