package schema

import (
	"fmt"

	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

// ExportUseCase arma la exportación XML de una tabla: esquema completo más
// todas las filas, para respaldo o intercambio con otros sistemas.
type ExportUseCase struct {
	tableRepo repository.TableRepository
	colRepo   repository.ColumnRepository
	rowRepo   repository.RowRepository
	exporter  TableExporter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	tableRepo repository.TableRepository,
	colRepo repository.ColumnRepository,
	rowRepo repository.RowRepository,
	exporter TableExporter,
) *ExportUseCase {
	return &ExportUseCase{tableRepo: tableRepo, colRepo: colRepo, rowRepo: rowRepo, exporter: exporter}
}

// ExportTableXML carga la tabla con sus columnas y filas y delega la
// serialización al exportador.
//
// Retorna:
//   - (xmlBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la tabla no existe.
//   - domain.ErrForbidden        si el actor no puede leer la tabla.
func (uc *ExportUseCase) ExportTableXML(
	actorID string,
	isAdmin bool,
	tableID string,
) (xmlBytes []byte, filename string, err error) {
	table, err := uc.tableRepo.GetByID(tableID)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: obtener tabla: %w", err)
	}
	if table == nil {
		return nil, "", domain.ErrNotFound
	}
	if !canRead(table, actorID, isAdmin) {
		return nil, "", domain.ErrForbidden
	}

	cols, err := uc.colRepo.ListByTable(tableID)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: listar columnas: %w", err)
	}
	rows, err := uc.rowRepo.ListAllByTable(tableID)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: listar filas: %w", err)
	}

	xmlBytes, err = uc.exporter.BuildTableXML(table, cols, rows)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: serialización fallida: %w", err)
	}
	return xmlBytes, exportFilename(table), nil
}

// exportFilename deriva un nombre de archivo seguro del nombre de la tabla:
// minúsculas, espacios como guion bajo y solo [a-z0-9_-]. Si no queda nada
// usable cae al ID.
func exportFilename(t *entity.Table) string {
	slug := make([]rune, 0, len(t.Name))
	for _, r := range t.Name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			slug = append(slug, r)
		case r >= 'A' && r <= 'Z':
			slug = append(slug, r+('a'-'A'))
		case r == ' ':
			slug = append(slug, '_')
		}
	}
	if len(slug) == 0 {
		return fmt.Sprintf("tabla_%s.xml", t.ID)
	}
	return fmt.Sprintf("tabla_%s.xml", string(slug))
}
