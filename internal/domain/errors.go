package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrDuplicateColumn    = errors.New("ya existe una columna con ese nombre en la tabla")
	ErrColumnProtected    = errors.New("columna protegida por el tipo de tabla")
	ErrIllegalTransition  = errors.New("transición de estado ilegal")
	ErrTokenExpired       = errors.New("token de acceso expirado")
)

// ColumnProtectedError indica un intento de renombrar o cambiar flags de una
// columna protegida. El mensaje va al consumidor de la API, por eso en inglés.
type ColumnProtectedError struct {
	Column    string
	TableType string
}

func (e *ColumnProtectedError) Error() string {
	return fmt.Sprintf("column %q is protected while the table type is %q; change the table type to default first",
		e.Column, e.TableType)
}

// Unwrap permite detectar la familia con errors.Is(err, ErrColumnProtected).
func (e *ColumnProtectedError) Unwrap() error { return ErrColumnProtected }

// TypeSwitchFailedError indica que las columnas ya fueron migradas pero el
// cambio final de tableType falló; el caller debe reconciliar manualmente.
type TypeSwitchFailedError struct {
	TableID string
	Err     error
}

func (e *TypeSwitchFailedError) Error() string {
	return fmt.Sprintf("columns changed but type switch failed for table %s: %v", e.TableID, e.Err)
}

func (e *TypeSwitchFailedError) Unwrap() error { return e.Err }
