package lifecycle

// modelNotFoundError indicates a requested model id is not in the catalog.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// dependencyUnavailableError signals a missing runtime dependency (e.g. a
// binary built without llama support) so the HTTP layer can return 503
// instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed
// runtime dependency.
func IsDependencyUnavailable(err error) bool {
	_, ok := err.(dependencyUnavailableError)
	return ok
}
