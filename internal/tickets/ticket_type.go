package tickets

import "strings"

// TicketType is the category a ticket is sold under. It decides the unit
// price and whether the holder occupies a seat.
type TicketType string

const (
	TicketTypeAdult  TicketType = "ADULT"
	TicketTypeChild  TicketType = "CHILD"
	TicketTypeInfant TicketType = "INFANT"
)

// AllTicketTypes lists every known category in display order
var AllTicketTypes = []TicketType{TicketTypeAdult, TicketTypeChild, TicketTypeInfant}

// IsValid checks if the ticket type is one of the known categories
func (t TicketType) IsValid() bool {
	for _, known := range AllTicketTypes {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the string representation of TicketType
func (t TicketType) String() string {
	return string(t)
}

// OccupiesSeat reports whether a ticket of this type needs its own seat.
// Infants sit on an adult's lap.
func (t TicketType) OccupiesSeat() bool {
	return t != TicketTypeInfant
}

// IsChargeable reports whether tickets of this type count towards the total cost
func (t TicketType) IsChargeable() bool {
	return t != TicketTypeInfant
}

// ParseTicketType converts user input such as "adult" into a TicketType
func ParseTicketType(s string) (TicketType, bool) {
	t := TicketType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}
