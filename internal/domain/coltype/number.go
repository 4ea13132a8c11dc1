package coltype

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// asDecimal intenta leer un valor como decimal: números directos o strings
// numéricos (tolerando separadores de miles y espacios).
func asDecimal(v entity.Value) (decimal.Decimal, bool) {
	switch v.Kind {
	case entity.KindNumber:
		return v.Num, true
	case entity.KindString:
		s := strings.TrimSpace(v.Str)
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// numberType cubre "number" y "float": cualquier decimal.
type numberType struct {
	id string
}

func (t numberType) ID() string { return t.id }

func (t numberType) Validate(v entity.Value, _ Options) Result {
	if _, ok := asDecimal(v); !ok {
		return Fail("Must be a number")
	}
	return OK()
}

func (t numberType) Format(v entity.Value, _ Options) string {
	if d, ok := asDecimal(v); ok {
		return d.String()
	}
	return v.String()
}

func (t numberType) Parse(input string, _ Options) (entity.Value, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return entity.NullValue(), fmt.Errorf("parse number %q: %w", input, err)
	}
	return entity.NumberValue(d), nil
}

func (t numberType) DefaultValue(_ Options) entity.Value {
	return entity.NumberValue(decimal.Zero)
}

// integerType exige números enteros.
type integerType struct{}

func (integerType) ID() string { return "integer" }

func (integerType) Validate(v entity.Value, _ Options) Result {
	d, ok := asDecimal(v)
	if !ok {
		return Fail("Must be a number")
	}
	if !d.IsInteger() {
		return Fail("Must be a whole number")
	}
	return OK()
}

func (integerType) Format(v entity.Value, _ Options) string {
	if d, ok := asDecimal(v); ok {
		return d.Truncate(0).String()
	}
	return v.String()
}

func (integerType) Parse(input string, _ Options) (entity.Value, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return entity.NullValue(), fmt.Errorf("parse integer %q: %w", input, err)
	}
	if !d.IsInteger() {
		return entity.NullValue(), fmt.Errorf("parse integer %q: not a whole number", input)
	}
	return entity.NumberValue(d), nil
}

func (integerType) DefaultValue(_ Options) entity.Value {
	return entity.NumberValue(decimal.Zero)
}

// percentageType acota el valor al rango [0, 100].
type percentageType struct{}

func (percentageType) ID() string { return "percentage" }

func (percentageType) Validate(v entity.Value, _ Options) Result {
	d, ok := asDecimal(v)
	if !ok {
		return Fail("Must be a number")
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return Fail("Percentage must be between 0 and 100")
	}
	return OK()
}

func (percentageType) Format(v entity.Value, _ Options) string {
	if d, ok := asDecimal(v); ok {
		return d.String() + "%"
	}
	return v.String()
}

func (percentageType) Parse(input string, _ Options) (entity.Value, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), "%"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return entity.NullValue(), fmt.Errorf("parse percentage %q: %w", input, err)
	}
	return entity.NumberValue(d), nil
}

func (percentageType) DefaultValue(_ Options) entity.Value {
	return entity.NumberValue(decimal.Zero)
}

// ratingType es un entero entre 0 y el máximo de la escala (5 por defecto).
type ratingType struct{}

func (ratingType) max(opts Options) int64 {
	if opts.MaxRating > 0 {
		return int64(opts.MaxRating)
	}
	return 5
}

func (ratingType) ID() string { return "rating" }

func (t ratingType) Validate(v entity.Value, opts Options) Result {
	d, ok := asDecimal(v)
	if !ok || !d.IsInteger() {
		return Fail(fmt.Sprintf("Rating must be a whole number between 0 and %d", t.max(opts)))
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(t.max(opts))) {
		return Fail(fmt.Sprintf("Rating must be between 0 and %d", t.max(opts)))
	}
	return OK()
}

func (t ratingType) Format(v entity.Value, opts Options) string {
	if d, ok := asDecimal(v); ok {
		return fmt.Sprintf("%s/%d", d.Truncate(0).String(), t.max(opts))
	}
	return v.String()
}

func (t ratingType) Parse(input string, _ Options) (entity.Value, error) {
	s := strings.TrimSpace(input)
	// acepta la forma "4/5" devuelta por Format
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return entity.NullValue(), fmt.Errorf("parse rating %q: %w", input, err)
	}
	return entity.NumberValue(d.Truncate(0)), nil
}

func (ratingType) DefaultValue(_ Options) entity.Value {
	return entity.NumberValue(decimal.Zero)
}
