package forecast

import (
	"fmt"
	"time"

	"weathr/models"
)

const timestampLayout = "2006-01-02 15:04"

// entry is a sample mapped onto its day and UTC hour.
type entry struct {
	day    models.DayKey
	hour   int
	sample models.DisplaySample
}

// Transform groups the samples of resp by UTC calendar day, dropping samples
// whose UTC hour is in exclude. Within a day samples keep their input order.
//
// Every sample is mapped before any is dropped, so a sample that breaks an
// invariant fails the transform even when its hour is excluded.
func Transform(resp *Response, exclude ExclusionSet) (*models.Forecast, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: no response to transform", ErrDataIntegrity)
	}

	entries := make([]entry, 0, len(resp.Samples))
	for i, s := range resp.Samples {
		e, err := mapSample(s)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		entries = append(entries, e)
	}

	days := make(map[models.DayKey][]models.DisplaySample)
	for _, e := range entries {
		if exclude.Contains(e.hour) {
			continue
		}
		days[e.day] = append(days[e.day], e.sample)
	}

	return models.NewForecast(resp.City, days), nil
}

func mapSample(s RawSample) (entry, error) {
	cond, err := s.FirstCondition()
	if err != nil {
		return entry{}, err
	}

	t := time.Unix(s.Timestamp, 0).UTC()

	var rain *float64
	if s.Rain3h != nil {
		v := *s.Rain3h
		rain = &v
	}

	return entry{
		day:  models.DayKeyOf(t),
		hour: t.Hour(),
		sample: models.DisplaySample{
			Weekday:     t.Format("Mon"),
			Hour:        t.Hour(),
			Timestamp:   t.Format(timestampLayout),
			Temp:        s.Temp,
			FeelsLike:   s.FeelsLike,
			Humidity:    s.Humidity,
			Description: cond.Description,
			WindSpeed:   s.WindSpeed,
			WindDeg:     s.WindDeg,
			Rain3h:      rain,
		},
	}, nil
}
