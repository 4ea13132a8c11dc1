package typechange_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/typechange"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del planificador de cambio de tipo: templates fijos por tipo y match
// bipartito goloso con puntaje global, sin reusar columnas existentes.
// ──────────────────────────────────────────────────────────────────────────────

func TestTemplate_PorTipo(t *testing.T) {
	sale := typechange.Template(entity.TableTypeSale)
	require.Len(t, sale, 2)
	assert.Equal(t, "price", sale[0].Name)
	assert.Equal(t, "qty", sale[1].Name)

	rent := typechange.Template(entity.TableTypeRent)
	require.Len(t, rent, 4)
	assert.Equal(t, []string{"price", "fee", "used", "available"},
		[]string{rent[0].Name, rent[1].Name, rent[2].Name, rent[3].Name})

	assert.Nil(t, typechange.Template(entity.TableTypeDefault),
		"el tipo default no exige columnas")
}

// TestSuggestMappings_EjemploCanonico cubre el caso de referencia: columnas
// ["Price ($)", "Qty", "ItemName"] migrando a sale.
func TestSuggestMappings_EjemploCanonico(t *testing.T) {
	existing := []entity.Column{
		{ID: "c1", Name: "Price ($)", ColumnType: "currency"},
		{ID: "c2", Name: "Qty", ColumnType: "number"},
		{ID: "c3", Name: "ItemName", ColumnType: "text"},
	}

	mappings := typechange.SuggestMappings(typechange.Template(entity.TableTypeSale), existing)
	require.Len(t, mappings, 2)

	byReq := map[string]typechange.Mapping{}
	for _, m := range mappings {
		byReq[m.RequiredColumn] = m
	}

	price := byReq["price"]
	assert.Equal(t, "c1", price.ExistingColumnID, "Price ($) debe cubrir price")
	assert.GreaterOrEqual(t, price.Score, 90, "match con no-alfanuméricos removidos")

	qty := byReq["qty"]
	assert.Equal(t, "c2", qty.ExistingColumnID, "Qty debe cubrir qty")
	assert.GreaterOrEqual(t, qty.Score, 100, "match exacto sin distinguir mayúsculas")

	assert.True(t, typechange.AllMapped(mappings))
}

func TestSuggestMappings_SinReusarColumnas(t *testing.T) {
	// una sola columna numérica no puede cubrir price y fee a la vez
	existing := []entity.Column{
		{ID: "c1", Name: "price", ColumnType: "currency"},
	}

	mappings := typechange.SuggestMappings(typechange.Template(entity.TableTypeRent), existing)
	require.Len(t, mappings, 4)

	usos := 0
	for _, m := range mappings {
		if m.ExistingColumnID == "c1" {
			usos++
		}
	}
	assert.Equal(t, 1, usos, "una columna existente cubre a lo sumo un slot")
	assert.False(t, typechange.AllMapped(mappings))
}

func TestSuggestMappings_HeuristicaDePalabrasClave(t *testing.T) {
	existing := []entity.Column{
		{ID: "c1", Name: "Costo unitario", ColumnType: "number"},
	}

	mappings := typechange.SuggestMappings(typechange.Template(entity.TableTypeSale), existing)
	byReq := map[string]typechange.Mapping{}
	for _, m := range mappings {
		byReq[m.RequiredColumn] = m
	}

	price := byReq["price"]
	require.Equal(t, "c1", price.ExistingColumnID,
		"'costo' sugiere price aunque el texto no se parezca")
	assert.Equal(t, 55, price.Score, "keyword 50 + bono de tipo compatible 5")
}

func TestSuggestMappings_ElMejorPuntajeGana(t *testing.T) {
	// "qty" exacto debe ganarle el slot a "quantity of items" (substring)
	existing := []entity.Column{
		{ID: "c1", Name: "quantity of qty items", ColumnType: "number"},
		{ID: "c2", Name: "qty", ColumnType: "number"},
	}

	mappings := typechange.SuggestMappings(typechange.Template(entity.TableTypeSale), existing)
	byReq := map[string]typechange.Mapping{}
	for _, m := range mappings {
		byReq[m.RequiredColumn] = m
	}
	assert.Equal(t, "c2", byReq["qty"].ExistingColumnID,
		"el match exacto gana sobre el substring aunque aparezca después")
}

func TestSuggestMappings_SinCandidatos(t *testing.T) {
	existing := []entity.Column{
		{ID: "c1", Name: "observaciones", ColumnType: "textarea"},
	}

	mappings := typechange.SuggestMappings(typechange.Template(entity.TableTypeSale), existing)
	for _, m := range mappings {
		assert.Empty(t, m.ExistingColumnID, "sin señal de nombre no hay mapeo")
	}
	assert.False(t, typechange.AllMapped(mappings))
}
