package coltype

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// phoneType normaliza teléfonos a E.164. Sin prefijo internacional asume el
// país de las opciones (US por defecto); el tipo DID por país lo aporta el
// módulo de telefonía.
type phoneType struct{}

func (phoneType) ID() string { return "phone" }

// phoneDigits quita todo lo que no sea dígito.
func phoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (phoneType) Validate(v entity.Value, _ Options) Result {
	d := phoneDigits(v.String())
	if len(d) < 7 || len(d) > 15 {
		return FailWithSuggestion("Invalid phone number", "Use digits with country code (e.g., +1 555 123 4567)")
	}
	return OK()
}

// Format despliega números norteamericanos como "+1 (555) 123-4567"; el resto
// queda en E.164.
func (phoneType) Format(v entity.Value, _ Options) string {
	d := phoneDigits(v.String())
	if len(d) == 11 && d[0] == '1' {
		return fmt.Sprintf("+1 (%s) %s-%s", d[1:4], d[4:7], d[7:])
	}
	if len(d) == 0 {
		return v.String()
	}
	return "+" + d
}

func (phoneType) Parse(input string, opts Options) (entity.Value, error) {
	country := opts.Country
	if country == "" {
		country = "US"
	}
	d := phoneDigits(input)
	if len(d) < 7 || len(d) > 15 {
		return entity.NullValue(), fmt.Errorf("parse phone %q: expected 7 to 15 digits", input)
	}
	if strings.HasPrefix(strings.TrimSpace(input), "+") {
		return entity.StringValue("+" + d), nil
	}
	if country == "US" || country == "CA" {
		switch {
		case len(d) == 10:
			return entity.StringValue("+1" + d), nil
		case len(d) == 11 && d[0] == '1':
			return entity.StringValue("+" + d), nil
		}
	}
	return entity.StringValue("+" + d), nil
}

func (phoneType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}
