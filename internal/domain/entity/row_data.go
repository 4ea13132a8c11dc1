package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ValueKind etiqueta el tipo dinámico de una celda.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
)

// Value es el valor etiquetado de una celda: exactamente uno de null, bool,
// number o string. Los números se guardan como decimal para no perder
// precisión en precios y cantidades al pasar por JSON.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  decimal.Decimal
	Str  string
}

// NullValue construye el valor nulo.
func NullValue() Value { return Value{Kind: KindNull} }

// BoolValue construye un valor booleano.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NumberValue construye un valor numérico.
func NumberValue(d decimal.Decimal) Value { return Value{Kind: KindNumber, Num: d} }

// IntValue construye un valor numérico desde un entero.
func IntValue(n int64) Value { return Value{Kind: KindNumber, Num: decimal.NewFromInt(n)} }

// StringValue construye un valor de texto.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IsEmpty indica si el valor cuenta como vacío para la validación de
// requeridos: null o string vacío.
func (v Value) IsEmpty() bool {
	return v.Kind == KindNull || (v.Kind == KindString && v.Str == "")
}

// Native devuelve la representación dinámica del valor: nil, bool,
// decimal.Decimal o string.
func (v Value) Native() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	}
	return nil
}

// String devuelve la forma textual del valor ("" para null).
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return v.Num.String()
	case KindString:
		return v.Str
	}
	return ""
}

// MarshalJSON serializa el valor como el literal JSON correspondiente.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return []byte(strconv.FormatBool(v.Bool)), nil
	case KindNumber:
		// decimal.String produce un literal numérico JSON válido
		return []byte(v.Num.String()), nil
	case KindString:
		return json.Marshal(v.Str)
	}
	return []byte("null"), nil
}

// UnmarshalJSON etiqueta cualquier literal JSON. Objetos y arreglos anidados
// (que el motor no interpreta) se conservan como string crudo para no perder
// datos: warn, don't block.
func (v *Value) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) == 0 {
		*v = NullValue()
		return nil
	}
	switch t[0] {
	case 'n':
		*v = NullValue()
		return nil
	case 't', 'f':
		var bb bool
		if err := json.Unmarshal(t, &bb); err != nil {
			return fmt.Errorf("valor booleano inválido: %w", err)
		}
		*v = BoolValue(bb)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return fmt.Errorf("valor string inválido: %w", err)
		}
		*v = StringValue(s)
		return nil
	case '{', '[':
		*v = StringValue(string(t))
		return nil
	}
	d, err := decimal.NewFromString(string(t))
	if err != nil {
		// literal no reconocido: conservarlo como texto
		*v = StringValue(string(t))
		return nil
	}
	*v = NumberValue(d)
	return nil
}

// RowData es el mapa ordenado nombre-de-columna → Value de una fila. El orden
// de inserción se conserva en la serialización; la validación y el rename de
// columnas operan sobre las claves de este mapa.
type RowData struct {
	keys   []string
	values map[string]Value
}

// NewRowData construye un RowData vacío.
func NewRowData() *RowData {
	return &RowData{values: make(map[string]Value)}
}

// RowDataFromJSON parsea el blob JSON de una fila conservando el orden de
// las claves.
func RowDataFromJSON(b []byte) (*RowData, error) {
	d := NewRowData()
	if len(bytes.TrimSpace(b)) == 0 {
		return d, nil
	}
	if err := d.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return d, nil
}

// Set asigna el valor de una clave; las claves nuevas van al final.
func (d *RowData) Set(name string, v Value) {
	if _, ok := d.values[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.values[name] = v
}

// Get devuelve el valor de una clave.
func (d *RowData) Get(name string) (Value, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Has indica si la clave existe.
func (d *RowData) Has(name string) bool {
	_, ok := d.values[name]
	return ok
}

// Delete elimina una clave conservando el orden del resto.
func (d *RowData) Delete(name string) {
	if _, ok := d.values[name]; !ok {
		return
	}
	delete(d.values, name)
	for i, k := range d.keys {
		if k == name {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Rename cambia la clave oldName por newName conservando su posición y su
// valor. Devuelve false si oldName no existe; si newName ya existía, su
// entrada anterior se elimina (el rename manda).
func (d *RowData) Rename(oldName, newName string) bool {
	v, ok := d.values[oldName]
	if !ok || oldName == newName {
		return ok && oldName == newName
	}
	if _, exists := d.values[newName]; exists {
		d.Delete(newName)
	}
	delete(d.values, oldName)
	d.values[newName] = v
	for i, k := range d.keys {
		if k == oldName {
			d.keys[i] = newName
			break
		}
	}
	return true
}

// Keys devuelve las claves en orden de inserción (copia).
func (d *RowData) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len devuelve la cantidad de claves.
func (d *RowData) Len() int { return len(d.keys) }

// Clone devuelve una copia profunda.
func (d *RowData) Clone() *RowData {
	c := NewRowData()
	for _, k := range d.keys {
		c.Set(k, d.values[k])
	}
	return c
}

// MarshalJSON serializa el mapa en orden de inserción.
func (d *RowData) MarshalJSON() ([]byte, error) {
	if d == nil || len(d.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := d.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parsea un objeto JSON conservando el orden de aparición de
// las claves (el orden importa para snapshots y para la UI).
func (d *RowData) UnmarshalJSON(b []byte) error {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	d.keys = d.keys[:0]
	for k := range d.values {
		delete(d.values, k)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parsear data de fila: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("data de fila debe ser un objeto JSON")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parsear clave: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("clave no es string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("parsear valor de %q: %w", key, err)
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("valor de %q: %w", key, err)
		}
		d.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("cerrar objeto: %w", err)
	}
	return nil
}
