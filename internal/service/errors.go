package service

// modelNotFoundError signals a requested model id absent from the registry.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns an error for a model id not present in the registry.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// artifactUnavailableError signals an artifact that is registered but
// cannot be loaded or scored, so the HTTP layer can return 503 instead
// of 500.
type artifactUnavailableError struct{ msg string }

func (e artifactUnavailableError) Error() string { return e.msg }

// ErrArtifactUnavailable constructs an artifactUnavailableError.
func ErrArtifactUnavailable(msg string) error { return artifactUnavailableError{msg: msg} }

// IsArtifactUnavailable reports whether err indicates a registered but
// unusable artifact.
func IsArtifactUnavailable(err error) bool {
	_, ok := err.(artifactUnavailableError)
	return ok
}
