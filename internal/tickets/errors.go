package tickets

// ConfigurationError is returned by NewService when the price table or
// limits cannot be used. A service is never built alongside one.
type ConfigurationError struct {
	Reason string
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.Detail != "" {
		return "configuration error: " + e.Reason + ": " + e.Detail
	}
	return "configuration error: " + e.Reason
}

// Is matches configuration errors by reason so that detailed errors still
// compare equal to the sentinels below.
func (e *ConfigurationError) Is(target error) bool {
	t, ok := target.(*ConfigurationError)
	return ok && t.Reason == e.Reason
}

// InvalidPurchaseError is returned when a purchase breaks a business rule.
// It is always returned before seats are reserved or an account is charged.
type InvalidPurchaseError struct {
	Reason string
}

func (e *InvalidPurchaseError) Error() string {
	return "invalid purchase: " + e.Reason
}

func (e *InvalidPurchaseError) Is(target error) bool {
	t, ok := target.(*InvalidPurchaseError)
	return ok && t.Reason == e.Reason
}

var (
	ErrEmptyPriceTable         = &ConfigurationError{Reason: "no tickets available"}
	ErrInvalidTicketPrice      = &ConfigurationError{Reason: "invalid ticket price"}
	ErrUnknownTicketCategory   = &ConfigurationError{Reason: "unknown ticket category"}
	ErrDuplicateTicketCategory = &ConfigurationError{Reason: "duplicate ticket category"}
	ErrInvalidMaxTickets       = &ConfigurationError{Reason: "max tickets must be at least 1"}
	ErrMissingCollaborator     = &ConfigurationError{Reason: "missing collaborator"}
)

var (
	ErrTooManyTickets        = &InvalidPurchaseError{Reason: "too many tickets"}
	ErrInvalidTicketType     = &InvalidPurchaseError{Reason: "invalid ticket type"}
	ErrInvalidTicketQuantity = &InvalidPurchaseError{Reason: "invalid ticket quantity"}
	ErrNoAdultTickets        = &InvalidPurchaseError{Reason: "no adult tickets"}
	ErrInvalidAccountID      = &InvalidPurchaseError{Reason: "invalid account id"}
)
