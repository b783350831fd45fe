package tickets

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const maxExactFloatID = 1 << 53

// NormalizeAccountID turns an account identifier given as an integer or a
// numeric string into the int64 handed to collaborators. Integers pass
// through unchanged. Identifiers must be positive.
func NormalizeAccountID(accountID any) (int64, error) {
	var id int64

	switch v := accountID.(type) {
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, ErrInvalidAccountID
		}
		id = parsed
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, ErrInvalidAccountID
		}
		id = parsed
	case int:
		id = int64(v)
	case int8:
		id = int64(v)
	case int16:
		id = int64(v)
	case int32:
		id = int64(v)
	case int64:
		id = v
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, ErrInvalidAccountID
		}
		id = int64(v)
	case uint8:
		id = int64(v)
	case uint16:
		id = int64(v)
	case uint32:
		id = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, ErrInvalidAccountID
		}
		id = int64(v)
	case float64:
		// Above 2^53 a float64 no longer holds every integer, so the id may
		// already have been rounded to a different account
		if v != math.Trunc(v) || math.Abs(v) > maxExactFloatID {
			return 0, ErrInvalidAccountID
		}
		id = int64(v)
	default:
		return 0, ErrInvalidAccountID
	}

	if id <= 0 {
		return 0, ErrInvalidAccountID
	}
	return id, nil
}
