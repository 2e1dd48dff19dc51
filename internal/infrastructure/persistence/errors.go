package persistence

import (
	"errors"

	"gorm.io/gorm"

	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
)

// translateWriteError maps unique violations onto shared.ErrAlreadyExists
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}
