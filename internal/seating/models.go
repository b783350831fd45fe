package seating

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrSeatNotReserved   = errors.New("seat is not reserved")
	ErrInvalidSeatCount  = errors.New("seat count must not be negative")
)

// Redis key layout
const (
	keyAvailable = "seating:available"
	keyReserved  = "seating:reserved"
	keyOwners    = "seating:owners"
	keyAccount   = "seating:account:"
)

func accountKey(accountID int64) string {
	return keyAccount + strconv.FormatInt(accountID, 10)
}

// SeatID builds the identifier for a seat, e.g. row 0 position 3 is "A3"
func SeatID(row, position int) string {
	return fmt.Sprintf("%s%d", rowLabel(row), position)
}

// rowLabel maps 0 -> A, 25 -> Z, 26 -> AA
func rowLabel(row int) string {
	label := ""
	for row >= 0 {
		label = string(rune('A'+row%26)) + label
		row = row/26 - 1
	}
	return label
}

// Availability summarises the seat pool
type Availability struct {
	Available int64 `json:"available"`
	Reserved  int64 `json:"reserved"`
	Assigned  int64 `json:"assigned"`
}
