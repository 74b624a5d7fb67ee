package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExclusionSet(t *testing.T) {
	tests := map[string]struct {
		hours []int
		want  []int
		err   error
	}{
		"empty":        {hours: nil, want: nil},
		"defaults":     {hours: []int{3, 0}, want: []int{0, 3}},
		"duplicates":   {hours: []int{5, 5, 1}, want: []int{1, 5}},
		"bounds":       {hours: []int{0, 23}, want: []int{0, 23}},
		"negative":     {hours: []int{-1}, err: ErrInvalidExclusion},
		"out of range": {hours: []int{0, 24}, err: ErrInvalidExclusion},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			set, err := NewExclusionSet(tc.hours...)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, set.Hours())
		})
	}
}

func TestParseExclusion(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
		err  error
	}{
		"defaults":   {in: "0,3", want: "0,3"},
		"spaces":     {in: " 3 , 0 ,", want: "0,3"},
		"empty":      {in: "", want: ""},
		"not a hour": {in: "0,x", err: ErrInvalidExclusion},
		"too large":  {in: "25", err: ErrInvalidExclusion},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			set, err := ParseExclusion(tc.in)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, set.String())
		})
	}
}

func TestDefaultExclusion(t *testing.T) {
	set := DefaultExclusion()
	assert.True(t, set.Contains(0))
	assert.True(t, set.Contains(3))
	for _, h := range []int{1, 2, 4, 12, 23} {
		assert.False(t, set.Contains(h), "hour %d", h)
	}
}
