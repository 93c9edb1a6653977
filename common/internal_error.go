package common

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/errors"
)

// LogInternalError logs err with a fresh reference and returns a user facing error that carries only the
// reference.
func LogInternalError(err error) errors.StrataError {
	var errRef string
	id, err2 := uuid.NewRandom()
	if err2 != nil {
		log.Errorf("failed to generate uuid %v", err2)
	} else {
		errRef = id.String()
	}
	log.Errorf("internal error occurred with reference %s\n%+v", errRef, err)
	return errors.NewInternalError(errRef)
}

// MaybeLogInternalError passes coded errors through and converts anything else with LogInternalError.
func MaybeLogInternalError(err error) error {
	if err == nil {
		return nil
	}
	var serr errors.StrataError
	if errors.As(err, &serr) {
		return serr
	}
	return LogInternalError(err)
}
