package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "known flag set to true returns true",
			registry: New(map[string]bool{FlagConcurrentScan: true}),
			flag:     FlagConcurrentScan,
			expected: true,
		},
		{
			name:     "known flag set to false returns false",
			registry: New(map[string]bool{FlagWatchInvalidate: false}),
			flag:     FlagWatchInvalidate,
			expected: false,
		},
		{
			name:     "unknown flag returns false",
			registry: New(map[string]bool{FlagConcurrentScan: true}),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     "any-flag",
			expected: false,
		},
		{
			name:     "nil flags map returns false",
			registry: New(nil),
			flag:     "any-flag",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.registry.Enabled(tt.flag)
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestRegistry_All_ReturnsDefensiveCopy(t *testing.T) {
	r := New(map[string]bool{FlagConcurrentScan: true})

	copied := r.All()
	copied[FlagConcurrentScan] = false
	copied["new-flag"] = true

	require.True(t, r.Enabled(FlagConcurrentScan))
	require.False(t, r.Enabled("new-flag"))
	require.Equal(t, map[string]bool{FlagConcurrentScan: true}, r.All())
}

func TestRegistry_All_NilRegistry(t *testing.T) {
	var r *Registry
	require.Equal(t, map[string]bool{}, r.All())
}

func TestNew_WithNilFlags(t *testing.T) {
	r := New(nil)
	require.NotNil(t, r)
	require.False(t, r.Enabled("any"))
}
