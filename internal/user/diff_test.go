package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffSlugs(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		desired  []string
		toAdd    []string
		toRemove []string
	}{
		{
			name:    "no change",
			current: []string{"patient"},
			desired: []string{"patient"},
		},
		{
			name:    "grant one",
			current: []string{"patient"},
			desired: []string{"patient", "doctor"},
			toAdd:   []string{"doctor"},
		},
		{
			name:     "revoke one",
			current:  []string{"patient", "assistant"},
			desired:  []string{"patient"},
			toRemove: []string{"assistant"},
		},
		{
			name:     "swap",
			current:  []string{"patient"},
			desired:  []string{"doctor"},
			toAdd:    []string{"doctor"},
			toRemove: []string{"patient"},
		},
		{
			name:     "clear all",
			current:  []string{"patient", "doctor"},
			desired:  nil,
			toRemove: []string{"patient", "doctor"},
		},
		{
			name:    "from empty",
			current: nil,
			desired: []string{"administrator"},
			toAdd:   []string{"administrator"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toRemove := DiffSlugs(tt.current, tt.desired)
			assert.ElementsMatch(t, tt.toAdd, toAdd)
			assert.ElementsMatch(t, tt.toRemove, toRemove)
		})
	}
}
