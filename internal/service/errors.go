package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/refurb_shop/internal/repo"
)

var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// storeErr maps storage errors onto the service taxonomy; what stays unmapped
// is an internal failure.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s already exists: %w", what, ErrConflict)
	case errors.Is(err, repo.ErrReferenced), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s is referenced by other records: %w", what, ErrConflict)
	default:
		return err
	}
}
