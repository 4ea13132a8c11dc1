package coltype

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// Formatos de almacenamiento: ISO para fechas, 24h para horas. Parse acepta
// además las formas de display, de modo que format(parse(x)) sea estable.
const (
	dateStore       = "2006-01-02"
	dateDisplay     = "Jan 2, 2006"
	timeStore       = "15:04"
	timeDisplay     = "3:04 PM"
	datetimeStore   = "2006-01-02 15:04"
	datetimeDisplay = "Jan 2, 2006 3:04 PM"
)

func parseAny(s string, layouts ...string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateType almacena fechas "YYYY-MM-DD".
type dateType struct{}

func (dateType) ID() string { return "date" }

func (dateType) Validate(v entity.Value, _ Options) Result {
	if _, ok := parseAny(v.String(), dateStore, dateDisplay, "2006/01/02", "01/02/2006"); !ok {
		return FailWithSuggestion("Invalid date", "Use the format YYYY-MM-DD (e.g., 2025-03-14)")
	}
	return OK()
}

func (dateType) Format(v entity.Value, _ Options) string {
	t, ok := parseAny(v.String(), dateStore, dateDisplay, "2006/01/02", "01/02/2006")
	if !ok {
		return v.String()
	}
	return t.Format(dateDisplay)
}

func (dateType) Parse(input string, _ Options) (entity.Value, error) {
	t, ok := parseAny(input, dateStore, dateDisplay, "2006/01/02", "01/02/2006")
	if !ok {
		return entity.NullValue(), fmt.Errorf("parse date %q: unrecognized format", input)
	}
	return entity.StringValue(t.Format(dateStore)), nil
}

func (dateType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}

// timeType almacena horas "HH:MM" en 24h.
type timeType struct{}

func (timeType) ID() string { return "time" }

func (timeType) Validate(v entity.Value, _ Options) Result {
	if _, ok := parseAny(v.String(), timeStore, "15:04:05", timeDisplay, "3:04PM"); !ok {
		return FailWithSuggestion("Invalid time", "Use the format HH:MM (e.g., 14:30)")
	}
	return OK()
}

func (timeType) Format(v entity.Value, _ Options) string {
	t, ok := parseAny(v.String(), timeStore, "15:04:05", timeDisplay, "3:04PM")
	if !ok {
		return v.String()
	}
	return t.Format(timeDisplay)
}

func (timeType) Parse(input string, _ Options) (entity.Value, error) {
	t, ok := parseAny(input, timeStore, "15:04:05", timeDisplay, "3:04PM")
	if !ok {
		return entity.NullValue(), fmt.Errorf("parse time %q: unrecognized format", input)
	}
	return entity.StringValue(t.Format(timeStore)), nil
}

func (timeType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}

// datetimeType almacena "YYYY-MM-DD HH:MM".
type datetimeType struct{}

func (datetimeType) ID() string { return "datetime" }

func (datetimeType) layouts() []string {
	return []string{datetimeStore, datetimeDisplay, time.RFC3339, "2006-01-02T15:04", "2006-01-02T15:04:05"}
}

func (t datetimeType) Validate(v entity.Value, _ Options) Result {
	if _, ok := parseAny(v.String(), t.layouts()...); !ok {
		return FailWithSuggestion("Invalid date and time", "Use the format YYYY-MM-DD HH:MM (e.g., 2025-03-14 09:30)")
	}
	return OK()
}

func (t datetimeType) Format(v entity.Value, _ Options) string {
	tt, ok := parseAny(v.String(), t.layouts()...)
	if !ok {
		return v.String()
	}
	return tt.Format(datetimeDisplay)
}

func (t datetimeType) Parse(input string, _ Options) (entity.Value, error) {
	tt, ok := parseAny(input, t.layouts()...)
	if !ok {
		return entity.NullValue(), fmt.Errorf("parse datetime %q: unrecognized format", input)
	}
	return entity.StringValue(tt.Format(datetimeStore)), nil
}

func (datetimeType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}
