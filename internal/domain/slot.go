package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Slot represents a named time-of-day interval available for booking
type Slot struct {
	ID    int64
	Label string // например "09:00–10:00"
	Start types.TimeString
	End   types.TimeString
}

// DurationMinutes returns the slot length
func (s Slot) DurationMinutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}

// StartsAt resolves the slot start on a calendar date in the operating timezone
func (s Slot) StartsAt(date time.Time, loc *time.Location) time.Time {
	return s.Start.OnDate(date, loc)
}

// SlotCatalog immutable registry of bookable slots, ordered by start time
type SlotCatalog struct {
	slots []Slot
	byID  map[int64]Slot
}

// NewSlotCatalog builds a catalog; slots are sorted by start time
func NewSlotCatalog(slots []Slot) *SlotCatalog {
	sorted := make([]Slot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.IsBefore(sorted[j].Start)
	})

	byID := make(map[int64]Slot, len(sorted))
	for _, s := range sorted {
		byID[s.ID] = s
	}

	return &SlotCatalog{slots: sorted, byID: byID}
}

// All returns a copy of all slots in start order
func (c *SlotCatalog) All() []Slot {
	out := make([]Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

// Get returns the slot by id
func (c *SlotCatalog) Get(id int64) (Slot, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Len returns number of slots
func (c *SlotCatalog) Len() int {
	return len(c.slots)
}

// Resolve returns the requested slots ordered by start time.
// ok=false if any id is unknown.
func (c *SlotCatalog) Resolve(ids []int64) ([]Slot, bool) {
	out := make([]Slot, 0, len(ids))
	for _, id := range ids {
		s, found := c.byID[id]
		if !found {
			return nil, false
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.IsBefore(out[j].Start)
	})
	return out, true
}

// SlotAvailability availability of one slot on a given date
type SlotAvailability struct {
	Slot        Slot
	IsBooked    bool // занят активным бронированием
	IsAvailable bool // свободен и еще не начался
}
