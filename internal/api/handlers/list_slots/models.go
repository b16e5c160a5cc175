package list_slots

import "github.com/m04kA/SMC-GroomingService/internal/domain"

// SlotResponse слот каталога
type SlotResponse struct {
	ID              int64  `json:"id"`
	Label           string `json:"label"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// SlotListResponse HTTP response model
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlots конвертирует каталог в HTTP response
func FromDomainSlots(slots []domain.Slot) *SlotListResponse {
	result := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		result.Slots = append(result.Slots, SlotResponse{
			ID:              s.ID,
			Label:           s.Label,
			StartTime:       s.Start.String(),
			EndTime:         s.End.String(),
			DurationMinutes: s.DurationMinutes(),
		})
	}
	return result
}
