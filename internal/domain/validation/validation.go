// Package validation implementa el contrato "warn, don't block" sobre las
// filas: los datos inválidos nunca se descartan ni bloquean escrituras, se
// reportan como advertencias por celda.
package validation

import (
	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

const requiredEmptyMsg = "Required field is empty"

// Validator evalúa valores contra el registro de tipos de columna.
type Validator struct {
	types *coltype.Registry
}

// New construye un Validator sobre el registro dado.
func New(types *coltype.Registry) *Validator {
	return &Validator{types: types}
}

// ValidateValue juzga un valor contra un tipo de columna. Los valores vacíos
// siempre son válidos (el chequeo de requeridos va aparte); el tipo se
// resuelve por su base, quitando el namespace de módulo si lo hay. Un tipo
// desconocido no puede juzgarse, así que pasa.
func (v *Validator) ValidateValue(val entity.Value, columnType string) coltype.Result {
	if val.IsEmpty() {
		return coltype.OK()
	}
	h, ok := v.types.Resolve(columnType)
	if !ok {
		return coltype.OK()
	}
	return h.Validate(val, coltype.Options{})
}

// ValidateRow evalúa una fila contra sus columnas y devuelve el resultado por
// nombre de columna. Una columna requerida sin valor y sin default registra
// la falla de campo requerido; el resto delega en ValidateValue.
func (v *Validator) ValidateRow(data *entity.RowData, cols []entity.Column) map[string]coltype.Result {
	out := make(map[string]coltype.Result, len(cols))
	for _, col := range cols {
		var val entity.Value
		if data != nil {
			val, _ = data.Get(col.Name)
		}
		if col.IsRequired && val.IsEmpty() && col.DefaultValue == "" {
			out[col.Name] = coltype.Fail(requiredEmptyMsg)
			continue
		}
		out[col.Name] = v.ValidateValue(val, col.ColumnType)
	}
	return out
}

// RowReport es el veredicto de una fila dentro de un dataset.
type RowReport struct {
	RowID        string
	IsValid      bool
	FieldResults map[string]coltype.Result
}

// DatasetReport agrega los veredictos de todas las filas de una tabla.
type DatasetReport struct {
	TotalRows     int
	InvalidRows   int
	TotalWarnings int
	Rows          []RowReport
}

// ValidateDataset evalúa todas las filas de una tabla. Ninguna falla detiene
// el recorrido: cada celda inválida suma una advertencia.
func (v *Validator) ValidateDataset(rows []entity.DataRow, cols []entity.Column) DatasetReport {
	report := DatasetReport{TotalRows: len(rows), Rows: make([]RowReport, 0, len(rows))}
	for _, row := range rows {
		fields := v.ValidateRow(row.Data, cols)
		rr := RowReport{RowID: row.ID, IsValid: true, FieldResults: fields}
		for _, res := range fields {
			if !res.Valid {
				rr.IsValid = false
				report.TotalWarnings++
			}
		}
		if !rr.IsValid {
			report.InvalidRows++
		}
		report.Rows = append(report.Rows, rr)
	}
	return report
}

// PreviewSample es una celda incompatible de un preview de cambio de tipo.
type PreviewSample struct {
	RowID string
	Value string
	Error string
}

// PreviewReport resume qué pasaría al cambiar el tipo de una columna.
type PreviewReport struct {
	IncompatibleRows int
	TotalRows        int
	Samples          []PreviewSample
}

const previewSampleLimit = 5

// PreviewTypeChange revalida los valores existentes de una columna contra un
// tipo hipotético sin mutar nada: es el chequeo previo a confirmar un cambio
// de tipo de columna.
func (v *Validator) PreviewTypeChange(rows []entity.DataRow, columnName, oldType, newType string) PreviewReport {
	_ = oldType // el veredicto depende solo del tipo destino
	report := PreviewReport{TotalRows: len(rows)}
	for _, row := range rows {
		if row.Data == nil {
			continue
		}
		val, ok := row.Data.Get(columnName)
		if !ok || val.IsEmpty() {
			continue
		}
		res := v.ValidateValue(val, newType)
		if res.Valid {
			continue
		}
		report.IncompatibleRows++
		if len(report.Samples) < previewSampleLimit {
			report.Samples = append(report.Samples, PreviewSample{
				RowID: row.ID,
				Value: val.String(),
				Error: res.Error,
			})
		}
	}
	return report
}
