package shortage

import "errors"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrLineNotFound   = errors.New("order line not found")
	ErrInvalidRequest = errors.New("invalid request")
)
