// Package txrun runs unit-of-work closures with conflict retries and maps
// store errors onto the apperr taxonomy.
package txrun

import (
	"errors"
	"log"

	"savings-group-backend/internal/domain/apperr"

	"gorm.io/gorm"
)

// DefaultAttempts is used when a caller passes a non-positive attempt count.
const DefaultAttempts = 3

// Do runs op until it succeeds, fails with a non-conflict error, or runs out
// of attempts. Each attempt must re-read everything it validates.
func Do(name string, attempts int, op func() error) error {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = op()
		if !errors.Is(err, apperr.ErrConflict) {
			return err
		}
		log.Printf("%s: conflict on attempt %d/%d: %v", name, i, attempts, cause(err))
	}
	return apperr.Unavailable(cause(err))
}

func cause(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Err != nil {
		return ae.Err
	}
	return err
}

// Translate turns any error into a tagged one. notFound is the message used
// for missing records.
func Translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case apperr.Tagged(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s", notFound)
	}
	return apperr.Unavailable(err)
}
