package entities

// SlotStatus is the display status of a single bookable start time.
type SlotStatus string

const (
	SlotStatusAvailable  SlotStatus = "available"
	SlotStatusBooked     SlotStatus = "booked"
	SlotStatusPast       SlotStatus = "past"
	SlotStatusUserBooked SlotStatus = "user-booked"
)

// Slot is an ephemeral (time, status) pair; recomputed on every query,
// never persisted.
type Slot struct {
	Time   string     `json:"time"`
	Status SlotStatus `json:"status"`
}

// DaySlots is the slot view of one calendar day.
type DaySlots struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Closed    bool   `json:"closed"`
	Slots     []Slot `json:"slots"`
}

// WeekSlots is the weekly availability view returned to customers.
type WeekSlots struct {
	ProviderID string     `json:"provider_id"`
	WeekStart  string     `json:"week_start"`
	Label      string     `json:"label"`
	Days       []DaySlots `json:"days"`
}
