package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// Фильтры customerId и groomerId учитываются только для администратора.
func ToServiceRequest(actor domain.Actor, query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		Actor:           actor,
		IncludeInactive: false, // По умолчанию только активные
	}

	if dateStr := query.Get("date"); dateStr != "" {
		req.Date = &dateStr
	}

	if statusStr := query.Get("status"); statusStr != "" {
		req.Status = &statusStr
	}

	if customerIDStr := query.Get("customerId"); customerIDStr != "" {
		customerID, err := strconv.ParseInt(customerIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid customerId value: %w", err)
		}
		req.CustomerID = &customerID
	}

	if groomerIDStr := query.Get("groomerId"); groomerIDStr != "" {
		groomerID, err := strconv.ParseInt(groomerIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid groomerId value: %w", err)
		}
		req.GroomerID = &groomerID
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
