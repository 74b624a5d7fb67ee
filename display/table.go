package display

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"weathr/models"
)

// Column identifies a table column.
type Column int

const (
	ColDayHour Column = iota
	ColTemp
	ColFeelsLike
	ColHumidity
	ColWindSpeed
	ColWindDeg
	ColRain
	ColDescription
)

type columnSpec struct {
	name       string
	rightAlign bool
	gap        string // separator written after the column
}

var columns = [...]columnSpec{
	ColDayHour:     {name: "day-hour", rightAlign: true, gap: "    "},
	ColTemp:        {name: "temp", gap: "  "},
	ColFeelsLike:   {name: "feel", gap: "   "},
	ColHumidity:    {name: "hum", rightAlign: true, gap: "   "},
	ColWindSpeed:   {name: "wspd", rightAlign: true, gap: "  "},
	ColWindDeg:     {name: "wdeg", rightAlign: true, gap: "    "},
	ColRain:        {name: "rain", rightAlign: true, gap: "   "},
	ColDescription: {name: "desc"},
}

// Cells formats a sample into one string per column.
func Cells(s models.DisplaySample) []string {
	return []string{
		ColDayHour:     fmt.Sprintf("%s-%02d", s.Weekday, s.Hour),
		ColTemp:        fmt.Sprintf("%.2f", s.Temp),
		ColFeelsLike:   fmt.Sprintf("%.2f", s.FeelsLike),
		ColHumidity:    strconv.Itoa(s.Humidity),
		ColWindSpeed:   fmt.Sprintf("%.2f", s.WindSpeed),
		ColWindDeg:     fmt.Sprintf("%03d", s.WindDeg),
		ColRain:        fmt.Sprintf("%.2f", s.Precipitation()),
		ColDescription: s.Description,
	}
}

// Table writes the city header and one table per day. Column widths are
// shared by all days so the tables line up.
func Table(w io.Writer, f *models.Forecast, styler Styler) error {
	if styler == nil {
		styler = Plain{}
	}

	type row struct {
		sample models.DisplaySample
		cells  []string
	}
	type day struct {
		key  models.DayKey
		rows []row
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c.name)
	}

	var days []day
	for k, samples := range f.All() {
		d := day{key: k}
		for _, s := range samples {
			cells := Cells(s)
			for i, c := range cells {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
			d.rows = append(d.rows, row{sample: s, cells: cells})
		}
		days = append(days, d)
	}

	bw := bufio.NewWriter(w)

	for _, line := range strings.Split(f.City().String(), "\n") {
		fmt.Fprintln(bw, styler.Title(line))
	}

	heading := make([]string, len(columns))
	for i, c := range columns {
		heading[i] = c.name
	}

	for _, d := range days {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, styler.DayHeading(d.key.String()))
		fmt.Fprintln(bw, styler.ColumnHeading(layout(heading, widths)))

		for _, r := range d.rows {
			var b strings.Builder
			for i, cell := range r.cells {
				b.WriteString(styler.Cell(Column(i), r.sample, pad(cell, i, widths)))
				b.WriteString(columns[i].gap)
			}
			fmt.Fprintln(bw, b.String())
		}
	}

	return bw.Flush()
}

func layout(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		b.WriteString(pad(cell, i, widths))
		b.WriteString(columns[i].gap)
	}
	return b.String()
}

// pad aligns cell within its column. The last column is not padded so rows
// carry no trailing blanks.
func pad(cell string, col int, widths []int) string {
	switch {
	case col == len(columns)-1:
		return cell
	case columns[col].rightAlign:
		return runewidth.FillLeft(cell, widths[col])
	default:
		return runewidth.FillRight(cell, widths[col])
	}
}
