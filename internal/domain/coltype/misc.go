package coltype

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

var (
	countryRe = regexp.MustCompile(`^[A-Za-z]{2,3}$`)
	colorRe   = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// countryType almacena códigos de país de 2 o 3 letras en mayúsculas.
type countryType struct{}

func (countryType) ID() string { return "country" }

func (countryType) Validate(v entity.Value, _ Options) Result {
	if v.Kind != entity.KindString || !countryRe.MatchString(strings.TrimSpace(v.Str)) {
		return FailWithSuggestion("Must be a 2-3 letter country code", "Use an ISO code (e.g., US, CO, MEX)")
	}
	return OK()
}

func (countryType) Format(v entity.Value, _ Options) string {
	return strings.ToUpper(strings.TrimSpace(v.String()))
}

// Parse canonicaliza vía la tabla de regiones BCP 47 cuando el código existe.
func (countryType) Parse(input string, _ Options) (entity.Value, error) {
	s := strings.TrimSpace(input)
	if !countryRe.MatchString(s) {
		return entity.NullValue(), fmt.Errorf("parse country %q: expected a 2-3 letter code", input)
	}
	if r, err := language.ParseRegion(s); err == nil {
		return entity.StringValue(r.String()), nil
	}
	return entity.StringValue(strings.ToUpper(s)), nil
}

func (countryType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}

// colorType almacena colores hex "#RRGGBB".
type colorType struct{}

func (colorType) ID() string { return "color" }

func (colorType) Validate(v entity.Value, _ Options) Result {
	if v.Kind != entity.KindString || !colorRe.MatchString(strings.TrimSpace(v.Str)) {
		return FailWithSuggestion("Must be a hex color", "Use the format #RRGGBB (e.g., #FF5733)")
	}
	return OK()
}

func (colorType) Format(v entity.Value, _ Options) string {
	return strings.ToUpper(v.String())
}

// Parse normaliza a "#RRGGBB" en mayúsculas, expandiendo la forma corta.
func (colorType) Parse(input string, _ Options) (entity.Value, error) {
	s := strings.TrimSpace(input)
	if !colorRe.MatchString(s) {
		return entity.NullValue(), fmt.Errorf("parse color %q: expected hex like #FF5733", input)
	}
	s = strings.ToUpper(strings.TrimPrefix(s, "#"))
	if len(s) == 3 {
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	}
	return entity.StringValue("#" + s), nil
}

func (colorType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}
