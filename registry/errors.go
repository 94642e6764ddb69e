package registry

import (
	"fmt"

	"github.com/JackSullivan/osgiutils/bundle"
)

// AlreadyRegisteredError is returned by Add/AddAll when a structurally
// equal bundle is already present in the registry.
type AlreadyRegisteredError struct {
	Bundle *bundle.BundleInfo
}

// Error implements error.
func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("bundle %s;version=%s is already registered", e.Bundle.SymbolicName, e.Bundle.Version)
}
