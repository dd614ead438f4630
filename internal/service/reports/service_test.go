package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingItemIDs(t *testing.T) {
	tests := []struct {
		name      string
		requested []int64
		active    []int64
		want      []int64
	}{
		{
			name:      "all active",
			requested: []int64{1, 2, 3},
			active:    []int64{1, 2, 3},
			want:      nil,
		},
		{
			name:      "one missing",
			requested: []int64{1, 2, 99},
			active:    []int64{1, 2},
			want:      []int64{99},
		},
		{
			name:      "all missing and sorted",
			requested: []int64{30, 10, 20},
			active:    nil,
			want:      []int64{10, 20, 30},
		},
		{
			name:      "duplicates reported once",
			requested: []int64{5, 5, 5},
			active:    nil,
			want:      []int64{5},
		},
		{
			name:      "empty request",
			requested: nil,
			active:    nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, missingItemIDs(tt.requested, tt.active))
		})
	}
}

func TestMissingItemsErrorMessage(t *testing.T) {
	err := &MissingItemsError{IDs: []int64{4, 17}}
	assert.Equal(t, "unknown or inactive inventory items: 4, 17", err.Error())
}
