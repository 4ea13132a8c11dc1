package pubapi

import (
	"encoding/json"
	"sort"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain/commerce"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// Items lista los ítems de una tabla comercial, del más reciente al más
// viejo. Con flat los ítems salen aplanados como registros; si no, como
// {id, data, createdAt, updatedAt}.
func (uc *UseCase) Items(token *entity.AccessToken, tableID string, flat bool) (*dto.PublicItemsResponse, error) {
	table, err := uc.accessedTable(token, tableID)
	if err != nil {
		return nil, err
	}
	if !table.IsCommerce() {
		return nil, errNotCommerceTable()
	}

	rows, err := uc.rowRepo.ListAllByTable(tableID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	items := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		var item json.RawMessage
		if flat {
			item, err = flatRecord(row, table.Name, table.TableType, nil)
		} else {
			item, err = nestedRecord(row)
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &dto.PublicItemsResponse{
		Items:     items,
		TableID:   table.ID,
		TableName: table.Name,
		TableType: table.TableType,
		Count:     len(items),
	}, nil
}

// Item trae un ítem puntual aplanado. A diferencia del listado, acá no se
// exige tipo comercial: un ítem puntual de una tabla default accesible
// también se sirve.
func (uc *UseCase) Item(token *entity.AccessToken, tableID, itemID string) (json.RawMessage, error) {
	table, err := uc.accessedTable(token, tableID)
	if err != nil {
		return nil, err
	}
	row, err := uc.rowRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if row == nil || row.TableID != tableID {
		return nil, errItemNotFound()
	}
	return flatRecord(row, table.Name, table.TableType, nil)
}

// Availability calcula la disponibilidad de un ítem para la cantidad pedida.
// En tablas sale es el qty vivo; en tablas rent un ítem vale 1 hasta que
// queda usado.
func (uc *UseCase) Availability(token *entity.AccessToken, tableID, itemID string, quantity int) (*dto.PublicAvailabilityResponse, error) {
	table, err := uc.accessedTable(token, tableID)
	if err != nil {
		return nil, err
	}
	row, err := uc.rowRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if row == nil || row.TableID != tableID {
		return nil, errItemNotFound()
	}

	var availableQty int64
	if table.TableType == entity.TableTypeSale {
		qty, _ := commerce.NumberFromRow(row.Data, commerce.FieldQty)
		availableQty = qty.IntPart()
	} else {
		availableQty = 1
		if commerce.StateFromRow(row.Data) == commerce.StateReleased {
			availableQty = 0
		}
	}
	return &dto.PublicAvailabilityResponse{
		Available:    availableQty >= int64(quantity),
		AvailableQty: availableQty,
		RequestedQty: quantity,
	}, nil
}
