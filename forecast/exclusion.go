package forecast

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// DefaultExcludedHours drops the near-midnight samples of the 3-hour cadence
// that duplicate the neighbouring day's boundary.
var DefaultExcludedHours = []int{0, 3}

// ExclusionSet is a set of UTC hours whose samples are dropped.
type ExclusionSet struct {
	hours map[int]struct{}
}

// NewExclusionSet returns a set of the given hours. Every hour must be 0-23.
func NewExclusionSet(hours ...int) (ExclusionSet, error) {
	set := ExclusionSet{hours: make(map[int]struct{}, len(hours))}
	for _, h := range hours {
		if h < 0 || h > 23 {
			return ExclusionSet{}, fmt.Errorf("%w: hour %d not in 0-23", ErrInvalidExclusion, h)
		}
		set.hours[h] = struct{}{}
	}
	return set, nil
}

// DefaultExclusion returns the set of DefaultExcludedHours.
func DefaultExclusion() ExclusionSet {
	set, _ := NewExclusionSet(DefaultExcludedHours...)
	return set
}

// ParseExclusion parses a comma separated list such as "0,3". An empty
// string yields an empty set.
func ParseExclusion(s string) (ExclusionSet, error) {
	var hours []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		h, err := strconv.Atoi(field)
		if err != nil {
			return ExclusionSet{}, fmt.Errorf("%w: %q is not an hour", ErrInvalidExclusion, field)
		}
		hours = append(hours, h)
	}
	return NewExclusionSet(hours...)
}

func (s ExclusionSet) Contains(hour int) bool {
	_, ok := s.hours[hour]
	return ok
}

// Hours returns the excluded hours in ascending order.
func (s ExclusionSet) Hours() []int {
	return slices.Sorted(maps.Keys(s.hours))
}

func (s ExclusionSet) String() string {
	hours := s.Hours()
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ",")
}
