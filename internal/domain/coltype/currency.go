package coltype

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// enPrinter agrupa miles al estilo en-US ("1,234.50").
var enPrinter = message.NewPrinter(language.English)

// currencyType almacena montos con a lo sumo 2 decimales y los muestra con
// símbolo y separador de miles.
type currencyType struct{}

func (currencyType) symbol(opts Options) string {
	if opts.CurrencySymbol != "" {
		return opts.CurrencySymbol
	}
	return "$"
}

func (currencyType) ID() string { return "currency" }

func (t currencyType) Validate(v entity.Value, _ Options) Result {
	d, ok := asDecimal(stripCurrency(v))
	if !ok {
		return Fail("Must be a monetary amount")
	}
	if !d.Equal(d.Round(2)) {
		return Fail("Currency allows at most 2 decimal places")
	}
	return OK()
}

func (t currencyType) Format(v entity.Value, opts Options) string {
	d, ok := asDecimal(stripCurrency(v))
	if !ok {
		return v.String()
	}
	f, _ := d.Round(2).Float64()
	return enPrinter.Sprintf("%s%.2f", t.symbol(opts), f)
}

func (t currencyType) Parse(input string, opts Options) (entity.Value, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, t.symbol(opts))
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return entity.NullValue(), fmt.Errorf("parse currency %q: %w", input, err)
	}
	return entity.NumberValue(d.Round(2)), nil
}

func (currencyType) DefaultValue(_ Options) entity.Value {
	return entity.NumberValue(decimal.Zero)
}

// stripCurrency limpia símbolo y separadores cuando el valor llegó como texto.
func stripCurrency(v entity.Value) entity.Value {
	if v.Kind != entity.KindString {
		return v
	}
	s := strings.TrimSpace(v.Str)
	s = strings.TrimPrefix(s, "$")
	return entity.StringValue(strings.TrimSpace(s))
}
