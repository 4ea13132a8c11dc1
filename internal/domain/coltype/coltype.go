// Package coltype define el contrato de los tipos semánticos de columna y el
// registro extensible que los resuelve. Los tipos integrados cubren texto,
// números, fechas, contacto y misceláneos; los módulos pueden registrar tipos
// propios en runtime bajo un namespace ("@store/phone:did") sin tocar los
// integrados.
package coltype

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// Result es el veredicto de una validación. Validate nunca lanza: siempre
// devuelve un Result, con Error y Suggestion opcionales.
type Result struct {
	Valid      bool
	Error      string
	Suggestion string
}

// OK es el resultado válido.
func OK() Result { return Result{Valid: true} }

// Fail construye un resultado inválido con mensaje.
func Fail(msg string) Result { return Result{Valid: false, Error: msg} }

// FailWithSuggestion construye un resultado inválido con mensaje y sugerencia.
func FailWithSuggestion(msg, suggestion string) Result {
	return Result{Valid: false, Error: msg, Suggestion: suggestion}
}

// Options parametriza un tipo por columna.
type Options struct {
	Country        string // phone: país por defecto para entradas sin prefijo
	CurrencySymbol string // currency: símbolo para mostrar
	MaxRating      int    // rating: tope de la escala
}

// Handler implementa el contrato de un tipo de columna.
type Handler interface {
	// ID es el identificador del tipo ("text", "currency", "@store/phone:did").
	ID() string
	// Validate juzga un valor ya almacenado. Nunca lanza.
	Validate(v entity.Value, opts Options) Result
	// Format produce la representación para mostrar.
	Format(v entity.Value, opts Options) string
	// Parse normaliza la entrada del usuario al valor almacenado.
	Parse(input string, opts Options) (entity.Value, error)
	// DefaultValue es el valor inicial de una celda nueva.
	DefaultValue(opts Options) entity.Value
}

// BaseType quita el prefijo de namespace de módulo: "@store/phone:did" → "did".
func BaseType(typeID string) string {
	if i := strings.LastIndex(typeID, ":"); i >= 0 {
		return typeID[i+1:]
	}
	return typeID
}

// Registry resuelve identificadores de tipo a su Handler. Es seguro para uso
// concurrente; los módulos registran tipos nuevos en caliente.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry construye un registro vacío.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Builtin construye un registro con todos los tipos integrados.
func Builtin() *Registry {
	r := NewRegistry()
	for _, h := range []Handler{
		textType{id: "text"},
		textType{id: "textarea"},
		numberType{id: "number"},
		numberType{id: "float"},
		integerType{},
		booleanType{},
		dateType{},
		timeType{},
		datetimeType{},
		emailType{},
		urlType{},
		phoneType{},
		countryType{},
		currencyType{},
		percentageType{},
		ratingType{},
		colorType{},
	} {
		// los integrados no colisionan entre sí
		_ = r.Register(h)
	}
	return r
}

// Register agrega un tipo. El id completo y su base quedan indexados, de modo
// que "@store/phone:did" también resuelve como "did".
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := h.ID()
	if _, ok := r.handlers[id]; ok {
		return fmt.Errorf("column type already registered: %q", id)
	}
	r.handlers[id] = h
	if base := BaseType(id); base != id {
		if _, ok := r.handlers[base]; !ok {
			r.handlers[base] = h
		}
	}
	return nil
}

// Resolve busca el handler por id exacto y, si no existe, por su tipo base.
func (r *Registry) Resolve(typeID string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[typeID]; ok {
		return h, true
	}
	h, ok := r.handlers[BaseType(typeID)]
	return h, ok
}

// Known indica si el id (o su base) tiene handler registrado.
func (r *Registry) Known(typeID string) bool {
	_, ok := r.Resolve(typeID)
	return ok
}

// IDs devuelve los identificadores registrados, sin orden garantizado.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		out = append(out, id)
	}
	return out
}
