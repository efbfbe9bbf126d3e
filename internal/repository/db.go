package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound hides gorm from callers; services compare against this.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
