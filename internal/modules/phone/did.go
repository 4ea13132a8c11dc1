// Package phone es el módulo de telefonía de la plataforma: aporta el tipo
// de columna DID ("@store/phone:did") con tablas de patrón y formato por
// país. Se registra en caliente sobre el registro de tipos, sin tocar los
// integrados; las columnas pueden referirlo por el id completo o por su base
// "did".
package phone

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// TypeDID es el identificador con namespace del tipo.
const TypeDID = "@store/phone:did"

// countryPlan describe el plan de numeración de un país: prefijo E.164,
// largos aceptados del número nacional y agrupación de dígitos para mostrar.
type countryPlan struct {
	code    string
	lengths []int
	layout  []int
}

// plans indexa por código ISO-3166 alfa-2. Cubre los mercados del producto;
// un número fuera de la tabla cae al chequeo y formato E.164 genéricos.
var plans = map[string]countryPlan{
	"US": {code: "1", lengths: []int{10}, layout: []int{3, 3, 4}},
	"CA": {code: "1", lengths: []int{10}, layout: []int{3, 3, 4}},
	"MX": {code: "52", lengths: []int{10}, layout: []int{2, 4, 4}},
	"CO": {code: "57", lengths: []int{10}, layout: []int{3, 7}},
	"AR": {code: "54", lengths: []int{10}, layout: []int{2, 4, 4}},
	"ES": {code: "34", lengths: []int{9}, layout: []int{3, 3, 3}},
	"GB": {code: "44", lengths: []int{9, 10}, layout: []int{4, 6}},
	"DE": {code: "49", lengths: []int{10, 11}, layout: []int{3, 4, 4}},
}

// byPrefix ordena los planes con el prefijo más largo primero, para que el
// match por prefijo no confunda "1" con "52".
var byPrefix = func() []countryPlan {
	seen := map[string]bool{}
	out := make([]countryPlan, 0, len(plans))
	for _, p := range plans {
		if seen[p.code] {
			continue
		}
		seen[p.code] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].code) != len(out[j].code) {
			return len(out[i].code) > len(out[j].code)
		}
		return out[i].code < out[j].code
	})
	return out
}()

// Register agrega el tipo DID al registro.
func Register(reg *coltype.Registry) error {
	if err := reg.Register(didType{}); err != nil {
		return fmt.Errorf("register phone module: %w", err)
	}
	return nil
}

// didType almacena DIDs en E.164 ("+15551234567") y los valida contra el
// plan de numeración del país que indica el prefijo.
type didType struct{}

func (didType) ID() string { return TypeDID }

func (didType) Validate(v entity.Value, _ coltype.Options) coltype.Result {
	d := digits(v.String())
	if len(d) < 7 || len(d) > 15 {
		return coltype.FailWithSuggestion("Invalid DID number", "Use E.164 format (e.g., +1 555 123 4567)")
	}
	if plan, national, ok := matchPlan(d); ok && !lengthAllowed(plan, len(national)) {
		return coltype.FailWithSuggestion(
			fmt.Sprintf("Invalid DID number for country code +%s", plan.code),
			fmt.Sprintf("Expected %s national digits", lengthsText(plan)),
		)
	}
	return coltype.OK()
}

// Format agrupa el número nacional según el layout del plan. Sin plan que
// matchee, el número queda en E.164 plano.
func (didType) Format(v entity.Value, _ coltype.Options) string {
	d := digits(v.String())
	if len(d) == 0 {
		return v.String()
	}
	plan, national, ok := matchPlan(d)
	if !ok || !lengthAllowed(plan, len(national)) {
		return "+" + d
	}
	groups := make([]string, 0, len(plan.layout)+1)
	rest := national
	for _, n := range plan.layout {
		if n > len(rest) {
			n = len(rest)
		}
		groups = append(groups, rest[:n])
		rest = rest[n:]
	}
	if rest != "" {
		groups = append(groups, rest)
	}
	return "+" + plan.code + " " + strings.Join(groups, " ")
}

func (didType) Parse(input string, opts coltype.Options) (entity.Value, error) {
	d := digits(input)
	if len(d) == 0 {
		return entity.NullValue(), fmt.Errorf("parse did %q: no digits", input)
	}
	if strings.HasPrefix(strings.TrimSpace(input), "+") {
		if plan, national, ok := matchPlan(d); ok && !lengthAllowed(plan, len(national)) {
			return entity.NullValue(), fmt.Errorf("parse did %q: expected %s national digits for +%s", input, lengthsText(plan), plan.code)
		}
		if len(d) < 7 || len(d) > 15 {
			return entity.NullValue(), fmt.Errorf("parse did %q: expected 7 to 15 digits", input)
		}
		return entity.StringValue("+" + d), nil
	}

	country := opts.Country
	if country == "" {
		country = "US"
	}
	plan, ok := plans[strings.ToUpper(country)]
	if !ok {
		if len(d) < 7 || len(d) > 15 {
			return entity.NullValue(), fmt.Errorf("parse did %q: expected 7 to 15 digits", input)
		}
		return entity.StringValue("+" + d), nil
	}
	// la entrada nacional puede venir con el prefijo del país ya puesto
	if national, found := strings.CutPrefix(d, plan.code); found && lengthAllowed(plan, len(national)) {
		return entity.StringValue("+" + d), nil
	}
	if !lengthAllowed(plan, len(d)) {
		return entity.NullValue(), fmt.Errorf("parse did %q: expected %s national digits for %s", input, lengthsText(plan), strings.ToUpper(country))
	}
	return entity.StringValue("+" + plan.code + d), nil
}

func (didType) DefaultValue(_ coltype.Options) entity.Value {
	return entity.StringValue("")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchPlan busca el plan cuyo prefijo encabeza los dígitos E.164. Devuelve
// el número nacional restante.
func matchPlan(d string) (countryPlan, string, bool) {
	for _, p := range byPrefix {
		if strings.HasPrefix(d, p.code) {
			return p, d[len(p.code):], true
		}
	}
	return countryPlan{}, "", false
}

func lengthAllowed(p countryPlan, n int) bool {
	for _, l := range p.lengths {
		if n == l {
			return true
		}
	}
	return false
}

func lengthsText(p countryPlan) string {
	parts := make([]string, len(p.lengths))
	for i, l := range p.lengths {
		parts[i] = fmt.Sprintf("%d", l)
	}
	return strings.Join(parts, " or ")
}
