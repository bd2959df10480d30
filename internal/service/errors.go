package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("empty cart")
	ErrValidation         = errors.New("validation")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// notFound maps gorm's missing-row error onto ErrNotFound and leaves every
// other error as is.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// Message is the text shown to a shopper or admin for a service error.
func Message(err error) string {
	var (
		ve *ValidationError
		ce *conflictError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Msg
	case errors.As(err, &ce):
		return ce.msg
	case errors.Is(err, ErrInsufficientStock):
		return "Stock insuficiente."
	case errors.Is(err, ErrEmptyCart):
		return "Tu carrito está vacío."
	case errors.Is(err, ErrNotFound):
		return "El elemento solicitado no existe."
	case errors.Is(err, ErrInvalidCredentials):
		return "Correo o contraseña incorrectos."
	case errors.Is(err, ErrUnauthenticated):
		return "Debes iniciar sesión."
	case errors.Is(err, ErrConflict):
		return "El registro ya existe."
	case errors.Is(err, ErrValidation):
		return "Datos inválidos."
	}
	return "Ocurrió un error inesperado. Intenta de nuevo."
}

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
