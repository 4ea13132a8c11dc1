package pubapi

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// wireTime es el formato de los timestamps en el contrato público.
func wireTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// flatRecord aplana una fila al registro del contrato: id, tableId,
// tableName, tableType, los campos de data en su orden, createdAt y
// updatedAt. Con keep no nulo solo sobreviven los campos de data listados;
// los cuatro metadatos de identidad se conservan siempre y los timestamps
// solo si keep los incluye.
func flatRecord(row *entity.DataRow, tableName, tableType string, keep []string) (json.RawMessage, error) {
	var kept map[string]bool
	if keep != nil {
		kept = make(map[string]bool, len(keep))
		for _, k := range keep {
			kept[k] = true
		}
	}

	flat := entity.NewRowData()
	flat.Set("id", entity.StringValue(row.ID))
	flat.Set("tableId", entity.StringValue(row.TableID))
	flat.Set("tableName", entity.StringValue(tableName))
	flat.Set("tableType", entity.StringValue(tableType))
	if row.Data != nil {
		for _, k := range row.Data.Keys() {
			if kept != nil && !kept[k] {
				continue
			}
			v, _ := row.Data.Get(k)
			flat.Set(k, v)
		}
	}
	if kept == nil || kept["createdAt"] {
		flat.Set("createdAt", entity.StringValue(wireTime(row.CreatedAt)))
	}
	if kept == nil || kept["updatedAt"] {
		flat.Set("updatedAt", entity.StringValue(wireTime(row.UpdatedAt)))
	}
	return json.Marshal(flat)
}

// nestedItem es la forma no aplanada de un ítem.
type nestedItem struct {
	ID        string          `json:"id"`
	Data      *entity.RowData `json:"data"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func nestedRecord(row *entity.DataRow) (json.RawMessage, error) {
	data := row.Data
	if data == nil {
		data = entity.NewRowData()
	}
	return json.Marshal(nestedItem{
		ID:        row.ID,
		Data:      data,
		CreatedAt: wireTime(row.CreatedAt),
		UpdatedAt: wireTime(row.UpdatedAt),
	})
}
