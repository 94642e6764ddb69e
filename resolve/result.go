package resolve

import (
	"fmt"

	"github.com/JackSullivan/osgiutils/bundle"
)

// ResolverResult is the closed set of tagged variants a single wire
// classifies to: a reachable dependency in either registry state, or one
// of the three missing-dependency diagnostics. It replaces the
// inheritance hierarchy a class-based implementation would use with a
// sealed Go interface plus a type switch at every consumer.
type ResolverResult interface {
	isResolverResult()
}

// Unresolved names a dependency bundle the registry currently records as
// not yet resolved.
type Unresolved struct {
	Bundle *bundle.BundleInfo
}

func (Unresolved) isResolverResult() {}

// Resolved names a dependency bundle the registry currently records as
// resolved.
type Resolved struct {
	Bundle *bundle.BundleInfo
}

func (Resolved) isResolverResult() {}

// MissingRequiredBundle is the ResolverResult variant carrying a
// MissingRequiredBundleError.
type MissingRequiredBundle struct {
	*MissingRequiredBundleError
}

func (MissingRequiredBundle) isResolverResult() {}

// MissingImportedPackage is the ResolverResult variant carrying a
// MissingImportedPackageError.
type MissingImportedPackage struct {
	*MissingImportedPackageError
}

func (MissingImportedPackage) isResolverResult() {}

// MissingFragmentHost is the ResolverResult variant carrying a
// MissingFragmentHostError.
type MissingFragmentHost struct {
	*MissingFragmentHostError
}

func (MissingFragmentHost) isResolverResult() {}

// resultKey is the dedup key for a ResolverResult: two results with the
// same key are the same variant over the same bundle/requirement and are
// collapsed into one entry in a Diagnostics set.
func resultKey(r ResolverResult) string {
	switch v := r.(type) {
	case Unresolved:
		return fmt.Sprintf("U:%p", v.Bundle)
	case Resolved:
		return fmt.Sprintf("R:%p", v.Bundle)
	case MissingRequiredBundle:
		return fmt.Sprintf("MRB:%p:%s", v.Owner, v.Requirement)
	case MissingImportedPackage:
		return fmt.Sprintf("MIP:%p:%s", v.Owner, v.Requirement)
	case MissingFragmentHost:
		return fmt.Sprintf("MFH:%p:%s", v.Owner, v.Requirement)
	default:
		return ""
	}
}
