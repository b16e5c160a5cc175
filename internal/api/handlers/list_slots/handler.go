package list_slots

import (
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
)

type Handler struct {
	catalog SlotCatalog
	logger  Logger
}

func NewHandler(catalog SlotCatalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slots := h.catalog.All()

	h.logger.Info("GET /slots - Returned %d slots", len(slots))
	handlers.RespondJSON(w, http.StatusOK, FromDomainSlots(slots))
}
