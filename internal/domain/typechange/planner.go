// Package typechange calcula el plan de migración de una tabla a un tipo de
// comercio: qué columnas requeridas exige el tipo destino y qué columnas
// existentes pueden cubrirlas. El plan es consultivo, nunca muta nada.
package typechange

import (
	"sort"
	"strings"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// TemplateColumn es una columna requerida por un tipo de tabla de comercio.
type TemplateColumn struct {
	Name         string
	ColumnType   string
	Required     bool
	DefaultValue string
	// AllowDuplicates siempre es true en las columnas de comercio: precios y
	// cantidades se repiten entre ítems con naturalidad.
	AllowDuplicates bool
	// Keywords alimenta la heurística de familia: nombres de columna que
	// sugieren el mismo dato aunque no se parezcan textualmente.
	Keywords []string
}

// Template devuelve las columnas requeridas del tipo destino. Los templates
// son fijos: solo los tipos de columna son extensibles por módulos, no los
// requisitos de sale y rent.
func Template(tableType string) []TemplateColumn {
	switch tableType {
	case entity.TableTypeSale:
		return []TemplateColumn{
			{Name: "price", ColumnType: "currency", Required: true, DefaultValue: "0", AllowDuplicates: true,
				Keywords: []string{"price", "cost", "amount", "precio", "costo", "valor"}},
			{Name: "qty", ColumnType: "number", Required: true, DefaultValue: "0", AllowDuplicates: true,
				Keywords: []string{"qty", "quantity", "stock", "count", "cantidad", "existencia"}},
		}
	case entity.TableTypeRent:
		return []TemplateColumn{
			{Name: "price", ColumnType: "currency", Required: true, DefaultValue: "0", AllowDuplicates: true,
				Keywords: []string{"price", "cost", "amount", "precio", "costo", "valor"}},
			{Name: "fee", ColumnType: "currency", Required: true, DefaultValue: "0", AllowDuplicates: true,
				Keywords: []string{"fee", "charge", "deposit", "tarifa", "cargo"}},
			{Name: "used", ColumnType: "boolean", Required: true, DefaultValue: "false", AllowDuplicates: true,
				Keywords: []string{"used", "usado", "exhausted"}},
			{Name: "available", ColumnType: "boolean", Required: true, DefaultValue: "true", AllowDuplicates: true,
				Keywords: []string{"available", "disponible", "free"}},
		}
	}
	return nil
}

// Mapping asigna una columna requerida a una existente. ExistingColumnID
// vacío significa que hay que crear la columna desde el template.
type Mapping struct {
	RequiredColumn   string
	RequiredType     string
	ExistingColumnID string
	ExistingName     string
	Score            int
}

// AllMapped indica si todas las requeridas recibieron columna existente.
func AllMapped(ms []Mapping) bool {
	for _, m := range ms {
		if m.ExistingColumnID == "" {
			return false
		}
	}
	return true
}

// Puntajes del emparejamiento, de mejor a peor señal.
const (
	scoreExact      = 100
	scoreAlnum      = 90
	scoreSubstring  = 70
	scoreKeyword    = 50
	bonusTypeCompat = 5
)

// SuggestMappings empareja columnas requeridas con existentes mediante un
// match bipartito goloso puntuado globalmente: se puntúan todos los pares, se
// ordenan de mayor a menor y se asignan en ese orden sin reusar ninguna
// columna existente en dos slots.
func SuggestMappings(required []TemplateColumn, existing []entity.Column) []Mapping {
	type candidate struct {
		reqIdx, extIdx, score int
	}
	var candidates []candidate
	for ri, req := range required {
		for ei, col := range existing {
			if s := scorePair(req, col); s > 0 {
				candidates = append(candidates, candidate{reqIdx: ri, extIdx: ei, score: s})
			}
		}
	}
	// orden estable: mayor puntaje primero, luego orden del template
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].reqIdx != candidates[j].reqIdx {
			return candidates[i].reqIdx < candidates[j].reqIdx
		}
		return candidates[i].extIdx < candidates[j].extIdx
	})

	assigned := make(map[int]int, len(required)) // reqIdx → extIdx
	scores := make(map[int]int, len(required))
	consumed := make(map[int]bool, len(existing))
	for _, c := range candidates {
		if _, ok := assigned[c.reqIdx]; ok || consumed[c.extIdx] {
			continue
		}
		assigned[c.reqIdx] = c.extIdx
		scores[c.reqIdx] = c.score
		consumed[c.extIdx] = true
	}

	out := make([]Mapping, 0, len(required))
	for ri, req := range required {
		m := Mapping{RequiredColumn: req.Name, RequiredType: req.ColumnType}
		if ei, ok := assigned[ri]; ok {
			m.ExistingColumnID = existing[ei].ID
			m.ExistingName = existing[ei].Name
			m.Score = scores[ri]
		}
		out = append(out, m)
	}
	return out
}

// scorePair puntúa un par (requerida, existente). Se toma la mejor señal de
// nombre y se suma el bono de compatibilidad de tipo solo si hubo señal.
func scorePair(req TemplateColumn, col entity.Column) int {
	reqName := strings.ToLower(req.Name)
	colName := strings.ToLower(col.Name)

	score := 0
	switch {
	case reqName == colName:
		score = scoreExact
	case stripNonAlnum(reqName) == stripNonAlnum(colName):
		score = scoreAlnum
	case strings.Contains(colName, reqName) || strings.Contains(reqName, colName):
		score = scoreSubstring
	case matchesKeyword(colName, req.Keywords):
		score = scoreKeyword
	}
	if score == 0 {
		return 0
	}
	if compatibleTypes(req.ColumnType, col.ColumnType) {
		score += bonusTypeCompat
	}
	return score
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchesKeyword(colName string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(colName, k) {
			return true
		}
	}
	return false
}

// Familias de compatibilidad de tipos: numérica, booleana y textual.
var (
	numberFamily = map[string]bool{
		"number": true, "integer": true, "float": true, "currency": true, "percentage": true,
	}
	textFamily = map[string]bool{
		"text": true, "textarea": true, "email": true, "url": true, "phone": true,
	}
)

func compatibleTypes(a, b string) bool {
	if a == b {
		return true
	}
	if numberFamily[a] && numberFamily[b] {
		return true
	}
	if textFamily[a] && textFamily[b] {
		return true
	}
	return false
}
