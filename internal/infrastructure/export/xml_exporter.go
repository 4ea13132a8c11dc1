// Package export serializa tablas dinámicas completas a XML, esquema y
// filas incluidos, para respaldo e intercambio con otros sistemas.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/Tablas-api/internal/application/schema"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

var _ schema.TableExporter = (*EtreeTableExporter)(nil)

// EtreeTableExporter arma el documento de exportación de una tabla con la
// forma:
//
//	<table id=".." name=".." type=".." visibility=".." exportedAt="..">
//	  <description>..</description>          (si hay)
//	  <rentalPeriod>..</rentalPeriod>        (solo tablas rent)
//	  <columns count="N">
//	    <column id name type required allowDuplicates position>
//	      <defaultValue>..</defaultValue>    (si hay)
//	    </column>
//	  </columns>
//	  <rows count="M">
//	    <row id createdAt updatedAt>
//	      <field name=".." kind="..">valor</field>
//	    </row>
//	  </rows>
//	</table>
//
// Los campos de cada fila salen en el orden de inserción del data, no en el
// orden de las columnas: el XML es un volcado fiel de lo almacenado.
type EtreeTableExporter struct{}

// NewEtreeTableExporter construye el exportador.
func NewEtreeTableExporter() *EtreeTableExporter { return &EtreeTableExporter{} }

// BuildTableXML serializa la tabla al documento descrito arriba.
func (g *EtreeTableExporter) BuildTableXML(
	table *entity.Table,
	cols []*entity.Column,
	rows []*entity.DataRow,
) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("table")
	root.CreateAttr("id", table.ID)
	root.CreateAttr("name", table.Name)
	root.CreateAttr("type", table.TableType)
	root.CreateAttr("visibility", table.Visibility)
	root.CreateAttr("exportedAt", time.Now().UTC().Format(time.RFC3339))

	if table.Description != "" {
		root.CreateElement("description").SetText(table.Description)
	}
	if table.TableType == entity.TableTypeRent && table.RentalPeriod != "" {
		root.CreateElement("rentalPeriod").SetText(table.RentalPeriod)
	}

	colsEl := root.CreateElement("columns")
	colsEl.CreateAttr("count", strconv.Itoa(len(cols)))
	for _, c := range cols {
		el := colsEl.CreateElement("column")
		el.CreateAttr("id", c.ID)
		el.CreateAttr("name", c.Name)
		el.CreateAttr("type", c.ColumnType)
		el.CreateAttr("required", strconv.FormatBool(c.IsRequired))
		el.CreateAttr("allowDuplicates", strconv.FormatBool(c.AllowDuplicates))
		el.CreateAttr("position", strconv.Itoa(c.Position))
		if c.DefaultValue != "" {
			el.CreateElement("defaultValue").SetText(c.DefaultValue)
		}
	}

	rowsEl := root.CreateElement("rows")
	rowsEl.CreateAttr("count", strconv.Itoa(len(rows)))
	for _, r := range rows {
		rowEl := rowsEl.CreateElement("row")
		rowEl.CreateAttr("id", r.ID)
		rowEl.CreateAttr("createdAt", r.CreatedAt.UTC().Format(time.RFC3339))
		rowEl.CreateAttr("updatedAt", r.UpdatedAt.UTC().Format(time.RFC3339))
		if r.Data == nil {
			continue
		}
		for _, key := range r.Data.Keys() {
			v, _ := r.Data.Get(key)
			f := rowEl.CreateElement("field")
			f.CreateAttr("name", key)
			f.CreateAttr("kind", kindName(v.Kind))
			if v.Kind != entity.KindNull {
				f.SetText(v.String())
			}
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializar XML de la tabla %s: %w", table.ID, err)
	}
	return out, nil
}

func kindName(k entity.ValueKind) string {
	switch k {
	case entity.KindBool:
		return "bool"
	case entity.KindNumber:
		return "number"
	case entity.KindString:
		return "string"
	default:
		return "null"
	}
}
