package manifest

import "fmt"

// InvalidBundleError is the single error kind the parser raises: the
// manifest, or a value within it, could not be interpreted as a valid OSGi
// bundle. A version or range that fails to parse inside a manifest is
// reported through it; version.Parse and version.ParseRange called
// directly return plain errors, not an *InvalidBundleError.
type InvalidBundleError struct {
	Message string
}

// Error implements error.
func (e *InvalidBundleError) Error() string {
	return fmt.Sprintf("invalid bundle: %s", e.Message)
}

// invalidBundlef builds an *InvalidBundleError from a format string,
// keeping the message construction next to each call site instead of a
// table of error constants.
func invalidBundlef(format string, args ...any) *InvalidBundleError {
	return &InvalidBundleError{Message: fmt.Sprintf(format, args...)}
}
