package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Sentinel errors for the interaction engine. Handlers translate these to
// HTTP statuses via Status; everything else is treated as a transient store
// failure.
var (
	ErrNotFound             = errors.New("referenced record not found")
	ErrAlreadyExists        = errors.New("record already exists")
	ErrInvalidSelfReference = errors.New("operation may not reference the acting user")
	ErrValidationFailed     = errors.New("validation failed")
	ErrUnauthorized         = errors.New("actor lacks permission")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrUploadIncomplete     = errors.New("media upload incomplete")
)

// FromStore classifies an error returned by the database layer into the
// taxonomy. GORM is opened with TranslateError so constraint violations and
// missing rows arrive as gorm sentinels regardless of driver.
func FromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

const (
	retryAttempts  = 3
	retryBaseDelay = 50 * time.Millisecond
)

// Retry runs op, retrying with linear backoff as long as the failure
// classifies as ErrStoreUnavailable. Any other outcome, success included,
// returns immediately. Attempts are bounded; the last error surfaces once
// they are exhausted or the context is done.
func Retry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err = op(); !errors.Is(err, ErrStoreUnavailable) {
			return err
		}
		if attempt == retryAttempts {
			break
		}
		select {
		case <-time.After(retryBaseDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return err
		}
	}
	return err
}

// Status maps a taxonomy error to the HTTP status handlers respond with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidSelfReference), errors.Is(err, ErrValidationFailed):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrUploadIncomplete):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
