package coltype

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

var oneDecimal = decimal.NewFromInt(1)

// booleanType acepta true/false, 1/0, yes/no y on/off sin distinguir
// mayúsculas.
type booleanType struct{}

func (booleanType) ID() string { return "boolean" }

// asBool interpreta los literales booleanos aceptados.
func asBool(v entity.Value) (bool, bool) {
	switch v.Kind {
	case entity.KindBool:
		return v.Bool, true
	case entity.KindNumber:
		if v.Num.IsZero() {
			return false, true
		}
		if v.Num.Equal(oneDecimal) {
			return true, true
		}
		return false, false
	case entity.KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
	}
	return false, false
}

func (booleanType) Validate(v entity.Value, _ Options) Result {
	if _, ok := asBool(v); !ok {
		return Fail("Must be a boolean value (true/false, yes/no, 1/0, on/off)")
	}
	return OK()
}

func (booleanType) Format(v entity.Value, _ Options) string {
	b, ok := asBool(v)
	if !ok {
		return v.String()
	}
	if b {
		return "Yes"
	}
	return "No"
}

func (booleanType) Parse(input string, _ Options) (entity.Value, error) {
	b, ok := asBool(entity.StringValue(input))
	if !ok {
		return entity.NullValue(), fmt.Errorf("parse boolean %q: unrecognized literal", input)
	}
	return entity.BoolValue(b), nil
}

func (booleanType) DefaultValue(_ Options) entity.Value {
	return entity.BoolValue(false)
}
