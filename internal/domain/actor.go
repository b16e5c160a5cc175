package domain

// ActorRole роль вызывающего пользователя (из заголовка X-User-Role)
type ActorRole string

const (
	ActorCustomer ActorRole = "customer"
	ActorGroomer  ActorRole = "groomer"
	ActorAdmin    ActorRole = "admin"
)

// ParseActorRole конвертирует строку в ActorRole с валидацией
func ParseActorRole(s string) (ActorRole, bool) {
	switch ActorRole(s) {
	case ActorCustomer, ActorGroomer, ActorAdmin:
		return ActorRole(s), true
	}
	return "", false
}

// Actor аутентифицированный пользователь, выполняющий операцию
type Actor struct {
	ID   int64
	Role ActorRole
}

// IsAdmin returns true for operators with full access
func (a Actor) IsAdmin() bool {
	return a.Role == ActorAdmin
}

// IsOwner returns true if the actor is the booking's customer
func (a Actor) IsOwner(b *Booking) bool {
	return a.Role == ActorCustomer && b.CustomerID == a.ID
}

// IsAssignedGroomer returns true if the actor is the booking's groomer
func (a Actor) IsAssignedGroomer(b *Booking) bool {
	return a.Role == ActorGroomer && b.GroomerID != nil && *b.GroomerID == a.ID
}

// CanView returns true if the actor may read the booking
func (a Actor) CanView(b *Booking) bool {
	return a.IsAdmin() || a.IsOwner(b) || a.IsAssignedGroomer(b)
}

// CanManageAsCustomer returns true if the actor may cancel or reschedule the booking
func (a Actor) CanManageAsCustomer(b *Booking) bool {
	return a.IsAdmin() || a.IsOwner(b)
}

// CanService returns true if the actor may start or complete the booking
func (a Actor) CanService(b *Booking) bool {
	return a.IsAdmin() || a.IsAssignedGroomer(b)
}
