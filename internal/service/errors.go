package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
)

// repoErr maps a repository error onto the domain taxonomy, keeping the
// original error in the chain for logging.
func repoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInsufficientStock):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
}
