package assign_groomer

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

// AssignGroomerRequest HTTP request model
type AssignGroomerRequest struct {
	GroomerID int64 `json:"groomerId"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AssignGroomerRequest) ToServiceRequest(actor domain.Actor) *models.AssignGroomerRequest {
	return &models.AssignGroomerRequest{
		Actor:     actor,
		GroomerID: r.GroomerID,
	}
}
