package list_slots

import "github.com/m04kA/SMC-GroomingService/internal/domain"

type SlotCatalog interface {
	All() []domain.Slot
}

type Logger interface {
	Info(format string, v ...interface{})
}
