package display

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"weathr/models"
)

// Document is the JSON form of a forecast.
type Document struct {
	City          models.CityInfo `json:"city" jsonschema:"title=City"`
	Units         string          `json:"units,omitempty" jsonschema:"enum=imperial,enum=metric,enum=standard"`
	ExcludedHours []int           `json:"excluded_hours" jsonschema:"title=Excluded UTC hours"`
	Days          []DayDocument   `json:"days" jsonschema:"title=Days in calendar order"`
}

// DayDocument holds the samples of one day in input order.
type DayDocument struct {
	Day     string                 `json:"day" jsonschema:"pattern=^[0-9]{2}-[0-9]{2}$"`
	Samples []models.DisplaySample `json:"samples"`
}

func NewDocument(f *models.Forecast, units string, excludedHours []int) Document {
	doc := Document{
		City:          f.City(),
		Units:         units,
		ExcludedHours: excludedHours,
		Days:          make([]DayDocument, 0, f.Len()),
	}
	if doc.ExcludedHours == nil {
		doc.ExcludedHours = []int{}
	}

	for k, samples := range f.All() {
		doc.Days = append(doc.Days, DayDocument{Day: k.String(), Samples: samples})
	}
	return doc
}

// JSON writes doc as indented JSON.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Schema returns the JSON Schema of Document.
func Schema() ([]byte, error) {
	ref := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := ref.Reflect(&Document{})
	return json.MarshalIndent(schema, "", "  ")
}
