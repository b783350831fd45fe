package tickets

import "fmt"

// TicketTypeRequest asks for a number of tickets of one category.
// It is immutable once built.
type TicketTypeRequest struct {
	ticketType TicketType
	quantity   int
}

// NewTicketTypeRequest builds a request, rejecting non-positive quantities
func NewTicketTypeRequest(ticketType TicketType, quantity int) (TicketTypeRequest, error) {
	if quantity < 1 {
		return TicketTypeRequest{}, ErrInvalidTicketQuantity
	}
	return TicketTypeRequest{ticketType: ticketType, quantity: quantity}, nil
}

// MustTicketTypeRequest is like NewTicketTypeRequest but panics on error
func MustTicketTypeRequest(ticketType TicketType, quantity int) TicketTypeRequest {
	req, err := NewTicketTypeRequest(ticketType, quantity)
	if err != nil {
		panic(fmt.Sprintf("tickets: %d x %s: %v", quantity, ticketType, err))
	}
	return req
}

// TicketType returns the requested category
func (r TicketTypeRequest) TicketType() TicketType {
	return r.ticketType
}

// NoOfTickets returns the requested quantity
func (r TicketTypeRequest) NoOfTickets() int {
	return r.quantity
}

func (r TicketTypeRequest) String() string {
	return fmt.Sprintf("%d x %s", r.quantity, r.ticketType)
}
