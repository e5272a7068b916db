// Package apperr defines the typed errors the services return. Handlers
// map them to HTTP status codes with errors.As/errors.Is; everything else
// bubbles up wrapped and is reported as an internal error.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups of rows that do not exist or belong to
// another owner.
var ErrNotFound = errors.New("запись не найдена")

// ErrInvalidCredentials covers bad logins and rejected tokens. The
// message never says which part was wrong.
var ErrInvalidCredentials = errors.New("неверный email или пароль")

// ValidationError reports malformed input. It is always returned before
// any mutation happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for a field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientMaterial reports a material volume shortfall discovered
// during product creation. No stock is mutated when it is returned.
type InsufficientMaterial struct {
	MaterialID string
	Name       string
	Available  float64
	Required   float64
}

func (e *InsufficientMaterial) Error() string {
	return fmt.Sprintf("недостаточно материала %q (доступно: %.4g, требуется: %.4g)",
		e.Name, e.Available, e.Required)
}

// InsufficientToolWear reports an inventory wear budget shortfall.
type InsufficientToolWear struct {
	InventoryID string
	Name        string
	Available   float64
	Required    float64
}

func (e *InsufficientToolWear) Error() string {
	return fmt.Sprintf("недостаточный ресурс инвентаря %q (доступно: %.4g%%, требуется: %.4g%%)",
		e.Name, e.Available, e.Required)
}

// InsufficientStock reports a product quantity shortfall during order
// creation.
type InsufficientStock struct {
	ProductID string
	Name      string
	Available float64
	Required  float64
}

func (e *InsufficientStock) Error() string {
	return fmt.Sprintf("недостаточно изделий %q (доступно: %.4g, требуется: %.4g)",
		e.Name, e.Available, e.Required)
}

// Conflict reports a delete blocked by existing references.
type Conflict struct {
	Message string
}

func (e *Conflict) Error() string {
	return e.Message
}

// IsInsufficiency reports whether err is one of the stock shortfall kinds.
func IsInsufficiency(err error) bool {
	var im *InsufficientMaterial
	var iw *InsufficientToolWear
	var is *InsufficientStock
	return errors.As(err, &im) || errors.As(err, &iw) || errors.As(err, &is)
}
