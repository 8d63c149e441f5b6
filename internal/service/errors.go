package service

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when no post exists for a requested id. Its
// message is also the HTTP 404 response body.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Post not found with id: %d", e.ID)
}

// IsNotFound reports whether err is a post-not-found error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
