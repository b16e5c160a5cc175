package transition_booking

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

type BookingService interface {
	Start(ctx context.Context, id int64, req *models.TransitionRequest) (*models.BookingResponse, error)
	Complete(ctx context.Context, id int64, req *models.TransitionRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
