package reminders

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// renderMessage текст SMS с датой и временем визита в рабочем часовом поясе
func renderMessage(b *domain.Booking, r domain.Recipient, horizon int, loc *time.Location) string {
	at := b.AppointmentAt.In(loc)
	when := fmt.Sprintf("on %s at %s", at.Format("Mon, 02 Jan 2006"), at.Format(domain.TimeFormat))
	switch horizon {
	case 0:
		when = "today at " + at.Format(domain.TimeFormat)
	case 1:
		when = "tomorrow at " + at.Format(domain.TimeFormat)
	}

	greeting := "Hi"
	if r.Name != "" {
		greeting = "Hi " + r.Name
	}

	if r.Role == domain.RoleGroomer {
		return fmt.Sprintf("%s, you have a grooming visit (order %s, %s) %s.",
			greeting, b.OrderID, b.ServiceName, when)
	}
	return fmt.Sprintf("%s, your pet's %s appointment (order %s) is %s.",
		greeting, b.ServiceName, b.OrderID, when)
}
