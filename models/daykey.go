package models

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDayKey is returned when a day key cannot be parsed.
var ErrInvalidDayKey = errors.New("invalid day key")

// DayKey groups samples by calendar day. The year is not part of the key,
// so a window crossing Dec 31 orders January first.
type DayKey struct {
	Month int
	Day   int
}

// DayKeyOf returns the key of t's calendar day in t's location.
func DayKeyOf(t time.Time) DayKey {
	return DayKey{Month: int(t.Month()), Day: t.Day()}
}

// ParseDayKey parses the "MM-DD" form produced by String. Both fields must
// be exactly two digits.
func ParseDayKey(s string) (DayKey, error) {
	month, day, ok := strings.Cut(s, "-")
	if !ok {
		return DayKey{}, fmt.Errorf("%w: %q", ErrInvalidDayKey, s)
	}

	m, err := parseTwoDigits(month)
	if err != nil {
		return DayKey{}, fmt.Errorf("%w: month %q: %v", ErrInvalidDayKey, month, err)
	}
	d, err := parseTwoDigits(day)
	if err != nil {
		return DayKey{}, fmt.Errorf("%w: day %q: %v", ErrInvalidDayKey, day, err)
	}

	k := DayKey{Month: m, Day: d}
	if !k.Valid() {
		return DayKey{}, fmt.Errorf("%w: %q out of range", ErrInvalidDayKey, s)
	}
	return k, nil
}

func parseTwoDigits(s string) (int, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, errors.New("want two digits")
	}
	return strconv.Atoi(s)
}

// Valid reports whether month is 1-12 and day is 1-31.
func (k DayKey) Valid() bool {
	return k.Month >= 1 && k.Month <= 12 && k.Day >= 1 && k.Day <= 31
}

// Compare orders keys by month, then day.
func (k DayKey) Compare(o DayKey) int {
	if c := cmp.Compare(k.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(k.Day, o.Day)
}

func (k DayKey) Less(o DayKey) bool {
	return k.Compare(o) < 0
}

func (k DayKey) String() string {
	return fmt.Sprintf("%02d-%02d", k.Month, k.Day)
}

func (k DayKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DayKey) UnmarshalText(text []byte) error {
	v, err := ParseDayKey(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
