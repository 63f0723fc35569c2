package scoring

import (
	"errors"

	"tradesmarket/platform/apperr"
)

// AsValidation converts an *InvalidRangeError anywhere in err's chain into an
// apperr validation error carrying the offending field. Other errors are
// returned unchanged.
func AsValidation(err error) error {
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		return err
	}
	return apperr.Wrap(apperr.KindValidation, rangeErr.Error(), err).WithDetails(map[string]string{"field": rangeErr.Field})
}
