package get_availability

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-GroomingService/internal/usecase/get_availability"
)

// SlotAvailabilityResponse доступность одного слота
type SlotAvailabilityResponse struct {
	SlotID      int64  `json:"slotId"`
	Label       string `json:"label"`
	StartTime   string `json:"startTime"` // "09:00"
	EndTime     string `json:"endTime"`   // "10:00"
	IsBooked    bool   `json:"isBooked"`
	IsAvailable bool   `json:"isAvailable"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date  string                     `json:"date"` // "2026-10-15"
	Slots []SlotAvailabilityResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: make([]SlotAvailabilityResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotAvailabilityResponse{
			SlotID:      s.Slot.ID,
			Label:       s.Slot.Label,
			StartTime:   s.Slot.Start.String(),
			EndTime:     s.Slot.End.String(),
			IsBooked:    s.IsBooked,
			IsAvailable: s.IsAvailable,
		})
	}

	return result
}
