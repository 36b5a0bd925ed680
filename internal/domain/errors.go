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
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrStockNotReady      = errors.New("el stock aún no está inicializado")
)

// VersionConflictError indica una escritura con dataset_version obsoleta.
// El caller debe releer la fila y reenviar; esta capa nunca reintenta.
type VersionConflictError struct {
	Table   string
	ID      string
	Given   int64 // versión enviada por el caller
	Current int64 // versión almacenada
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("conflicto de versión en %s/%s: enviada %d, actual %d", e.Table, e.ID, e.Given, e.Current)
}

// ConstraintError conserva el código de error del almacén (p. ej. 23505)
// de forma opaca, para que el caller decida sin acoplarse a Postgres.
type ConstraintError struct {
	Code       string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("violación de constraint %s (%s): %v", e.Constraint, e.Code, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// FatalError envuelve fallos inesperados del row store (conectividad, etc.),
// distinguibles de los errores de datos del resto de la taxonomía.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("error fatal en %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
