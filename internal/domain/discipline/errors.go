package discipline

import "errors"

var (
	ErrFlagNotFound        = errors.New("disciplinary flag not found")
	ErrFlagAlreadyResolved = errors.New("disciplinary flag is already resolved")
)
