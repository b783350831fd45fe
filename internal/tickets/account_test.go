package tickets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAccountID(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{"int", 12, 12, false},
		{"int64", int64(99), 99, false},
		{"uint32", uint32(5), 5, false},
		{"numeric string", "123", 123, false},
		{"padded string", " 8 ", 8, false},
		{"json number", json.Number("77"), 77, false},
		{"integral float", float64(15), 15, false},
		{"fractional float", 1.5, 0, true},
		{"largest exact float", float64(1 << 53), 1 << 53, false},
		{"float beyond exact range", float64(1<<53 + 2), 0, true},
		{"large json number", json.Number("9007199254740993"), 9007199254740993, false},
		{"non numeric string", "12abc", 0, true},
		{"empty string", "", 0, true},
		{"zero", 0, 0, true},
		{"negative", -4, 0, true},
		{"negative string", "-4", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAccountID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAccountID)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
