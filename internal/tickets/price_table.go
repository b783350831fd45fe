package tickets

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// PriceTable maps each sellable category to its unit price. Its keys are
// the only categories a service built from it will accept.
type PriceTable map[TicketType]float64

// ParsePriceTable reads prices from configuration text, e.g. {"ADULT": "20"}
func ParsePriceTable(raw map[string]string) (PriceTable, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyPriceTable
	}

	prices := make(PriceTable, len(raw))
	for name, value := range raw {
		ticketType, ok := ParseTicketType(name)
		if !ok {
			return nil, &ConfigurationError{Reason: ErrUnknownTicketCategory.Reason, Detail: name}
		}
		if _, seen := prices[ticketType]; seen {
			return nil, &ConfigurationError{Reason: ErrDuplicateTicketCategory.Reason, Detail: name}
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, &ConfigurationError{
				Reason: ErrInvalidTicketPrice.Reason,
				Detail: fmt.Sprintf("%s=%q", ticketType, value),
			}
		}
		prices[ticketType] = price
	}

	if err := prices.Validate(); err != nil {
		return nil, err
	}
	return prices, nil
}

// Validate checks the table is non-empty, holds only known categories and
// that every price is a finite, non-negative number.
func (p PriceTable) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPriceTable
	}
	for _, ticketType := range p.Types() {
		if !ticketType.IsValid() {
			return &ConfigurationError{Reason: ErrUnknownTicketCategory.Reason, Detail: string(ticketType)}
		}
		price := p[ticketType]
		if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return &ConfigurationError{
				Reason: ErrInvalidTicketPrice.Reason,
				Detail: fmt.Sprintf("%s=%v", ticketType, price),
			}
		}
	}
	return nil
}

// Has reports whether the category is sold under this table
func (p PriceTable) Has(ticketType TicketType) bool {
	_, ok := p[ticketType]
	return ok
}

// Types returns the categories in a stable order
func (p PriceTable) Types() []TicketType {
	types := make([]TicketType, 0, len(p))
	for t := range p {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Clone returns a copy that shares nothing with p
func (p PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(p))
	for t, price := range p {
		out[t] = price
	}
	return out
}
