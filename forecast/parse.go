package forecast

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"weathr/models"
)

// Condition is one weather descriptor of a sample.
type Condition struct {
	Main        string
	Description string
}

// RawSample is one entry of the provider's forecast list.
type RawSample struct {
	Timestamp  int64 // epoch seconds, UTC
	Temp       float64
	FeelsLike  float64
	Humidity   int
	Conditions []Condition
	WindSpeed  float64
	WindDeg    int
	Rain3h     *float64 // nil when the entry has no rain object
}

// FirstCondition returns the descriptor shown to the user.
func (s RawSample) FirstCondition() (Condition, error) {
	if len(s.Conditions) == 0 {
		return Condition{}, fmt.Errorf("%w: sample at %d has no weather conditions", ErrDataIntegrity, s.Timestamp)
	}
	return s.Conditions[0], nil
}

// Response is a decoded forecast payload.
type Response struct {
	Code    string
	Count   int
	Samples []RawSample
	City    models.CityInfo
}

// wire types mirror the JSON payload. Required members are pointers so that
// a missing member can be told apart from a zero value.
type (
	wireResponse struct {
		Cod  *string      `json:"cod" validate:"required"`
		Cnt  int          `json:"cnt"`
		List []wireSample `json:"list" validate:"required,dive"`
		City *wireCity    `json:"city" validate:"required"`
	}

	wireSample struct {
		Dt      *int64          `json:"dt" validate:"required"`
		Main    *wireMain       `json:"main" validate:"required"`
		Weather []wireCondition `json:"weather" validate:"required,dive"`
		Wind    *wireWind       `json:"wind" validate:"required"`
		Rain    *wireRain       `json:"rain"`
	}

	wireMain struct {
		Temp      *float64 `json:"temp" validate:"required"`
		FeelsLike *float64 `json:"feels_like" validate:"required"`
		Humidity  *int     `json:"humidity" validate:"required,min=0,max=100"`
	}

	wireCondition struct {
		Main        *string `json:"main" validate:"required"`
		Description *string `json:"description" validate:"required"`
	}

	wireWind struct {
		Speed *float64 `json:"speed" validate:"required"`
		Deg   *int     `json:"deg" validate:"required,min=0,max=360"`
	}

	wireRain struct {
		ThreeHour *float64 `json:"3h" validate:"required"`
	}

	wireCity struct {
		Name     *string    `json:"name" validate:"required"`
		Country  *string    `json:"country" validate:"required"`
		Coord    *wireCoord `json:"coord" validate:"required"`
		Sunrise  *int64     `json:"sunrise" validate:"required"`
		Sunset   *int64     `json:"sunset" validate:"required"`
		Timezone *int       `json:"timezone" validate:"required"`
	}

	wireCoord struct {
		Lat *float64 `json:"lat" validate:"required"`
		Lon *float64 `json:"lon" validate:"required"`
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report payload member names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes a forecast payload. Errors wrap ErrMalformedResponse.
func Parse(payload []byte) (*Response, error) {
	var w wireResponse
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if err := validate.Struct(&w); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, describeValidation(err))
	}

	resp := &Response{
		Code:    *w.Cod,
		Count:   w.Cnt,
		Samples: make([]RawSample, 0, len(w.List)),
		City: models.CityInfo{
			Name:      *w.City.Name,
			Country:   *w.City.Country,
			Latitude:  *w.City.Coord.Lat,
			Longitude: *w.City.Coord.Lon,
			Sunrise:   *w.City.Sunrise,
			Sunset:    *w.City.Sunset,
			Timezone:  *w.City.Timezone,
		},
	}

	for _, ws := range w.List {
		resp.Samples = append(resp.Samples, ws.sample())
	}

	return resp, nil
}

func (ws wireSample) sample() RawSample {
	s := RawSample{
		Timestamp:  *ws.Dt,
		Temp:       *ws.Main.Temp,
		FeelsLike:  *ws.Main.FeelsLike,
		Humidity:   *ws.Main.Humidity,
		Conditions: make([]Condition, 0, len(ws.Weather)),
		WindSpeed:  *ws.Wind.Speed,
		WindDeg:    *ws.Wind.Deg,
	}

	for _, c := range ws.Weather {
		s.Conditions = append(s.Conditions, Condition{Main: *c.Main, Description: *c.Description})
	}

	if ws.Rain != nil {
		v := *ws.Rain.ThreeHour
		s.Rain3h = &v
	}

	return s
}

// describeValidation turns validator output into "list[2].main.temp: required".
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msg := field + ": " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
