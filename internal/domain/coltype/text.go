package coltype

import (
	"strings"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// textType cubre "text" y "textarea": cualquier escalar es válido.
type textType struct {
	id string
}

func (t textType) ID() string { return t.id }

func (t textType) Validate(v entity.Value, _ Options) Result {
	return OK()
}

func (t textType) Format(v entity.Value, _ Options) string {
	return v.String()
}

func (t textType) Parse(input string, _ Options) (entity.Value, error) {
	return entity.StringValue(strings.TrimSpace(input)), nil
}

func (t textType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}
