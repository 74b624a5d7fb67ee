package models

import (
	"fmt"
	"time"
)

// CityInfo describes the forecast location as reported by the provider.
type CityInfo struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Sunrise   int64   `json:"sunrise"`  // epoch seconds, UTC
	Sunset    int64   `json:"sunset"`   // epoch seconds, UTC
	Timezone  int     `json:"timezone"` // offset from UTC in seconds
}

// Location returns the zone the city's local times are shown in.
func (c CityInfo) Location() *time.Location {
	return time.FixedZone(c.Name, c.Timezone)
}

// LocalTime formats an epoch timestamp as "MM-DD HH:MM" in the city's zone.
func (c CityInfo) LocalTime(epoch int64) string {
	return time.Unix(epoch, 0).In(c.Location()).Format("01-02 15:04")
}

func (c CityInfo) String() string {
	return fmt.Sprintf("%s %s [%g, %g]\nSunrise %s  Sunset %s",
		c.Name, c.Country, c.Latitude, c.Longitude,
		c.LocalTime(c.Sunrise), c.LocalTime(c.Sunset))
}

// DisplaySample is a single forecast row, ready for rendering.
type DisplaySample struct {
	Weekday     string   `json:"weekday"`   // Mon, Tue, ...
	Hour        int      `json:"hour"`      // 0-23, UTC
	Timestamp   string   `json:"timestamp"` // YYYY-MM-DD HH:MM, UTC
	Temp        float64  `json:"temp"`
	FeelsLike   float64  `json:"feels_like"`
	Humidity    int      `json:"humidity"` // %
	Description string   `json:"description"`
	WindSpeed   float64  `json:"wind_speed"`
	WindDeg     int      `json:"wind_deg"`
	Rain3h      *float64 `json:"rain_3h,omitempty"` // nil when no precipitation was reported
}

// Precipitation returns the 3h rain amount, or zero when none was reported.
func (s DisplaySample) Precipitation() float64 {
	if s.Rain3h == nil {
		return 0
	}
	return *s.Rain3h
}

// Clone returns a copy of s that shares no memory with it.
func (s DisplaySample) Clone() DisplaySample {
	if s.Rain3h != nil {
		v := *s.Rain3h
		s.Rain3h = &v
	}
	return s
}

// HasPrecipitation reports whether the provider sent a rain amount.
func (s DisplaySample) HasPrecipitation() bool {
	return s.Rain3h != nil
}
