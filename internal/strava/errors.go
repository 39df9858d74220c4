package strava

import (
	"errors"
	"fmt"
)

// StatusError is a non-2xx API response after retries were exhausted
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("strava API returned HTTP %d", e.Code)
}

// IsUnauthorized reports whether err is a 401 status error
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 401
}
