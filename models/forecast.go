package models

import (
	"iter"
	"maps"
	"slices"
)

// Forecast is a day-grouped forecast. Days iterate in ascending DayKey
// order and samples keep the order they were added in. A Forecast is not
// modified after NewForecast returns, so it is safe for concurrent readers.
type Forecast struct {
	city CityInfo
	keys []DayKey
	days map[DayKey][]DisplaySample
}

// NewForecast takes a deep copy of days, dropping empty buckets.
func NewForecast(city CityInfo, days map[DayKey][]DisplaySample) *Forecast {
	f := &Forecast{
		city: city,
		days: make(map[DayKey][]DisplaySample, len(days)),
	}

	for k, samples := range days {
		if len(samples) == 0 {
			continue
		}
		f.days[k] = cloneSamples(samples)
	}

	f.keys = slices.SortedFunc(maps.Keys(f.days), DayKey.Compare)

	return f
}

func (f *Forecast) City() CityInfo {
	return f.city
}

// Keys returns the day keys in ascending order.
func (f *Forecast) Keys() []DayKey {
	return slices.Clone(f.keys)
}

// Day returns a copy of the samples for k.
func (f *Forecast) Day(k DayKey) ([]DisplaySample, bool) {
	samples, ok := f.days[k]
	if !ok {
		return nil, false
	}
	return cloneSamples(samples), true
}

// All yields every day in ascending order with a copy of its samples.
func (f *Forecast) All() iter.Seq2[DayKey, []DisplaySample] {
	return func(yield func(DayKey, []DisplaySample) bool) {
		for _, k := range f.keys {
			if !yield(k, cloneSamples(f.days[k])) {
				return
			}
		}
	}
}

func cloneSamples(samples []DisplaySample) []DisplaySample {
	out := make([]DisplaySample, len(samples))
	for i, s := range samples {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the number of days.
func (f *Forecast) Len() int {
	return len(f.keys)
}

// SampleCount returns the number of samples across all days.
func (f *Forecast) SampleCount() int {
	n := 0
	for _, samples := range f.days {
		n += len(samples)
	}
	return n
}
