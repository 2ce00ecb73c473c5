package catalog

import "fmt"

// NotFoundError reports a taxonomy or archive lookup that failed for a key
// the request explicitly named. It surfaces to callers as a client-side
// not-found condition.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// BadRequestError reports a request that cannot be served as stated:
// a missing required field or an unknown catalog type.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}
