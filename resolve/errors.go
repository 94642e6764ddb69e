package resolve

import (
	"fmt"
	"strings"

	"github.com/JackSullivan/osgiutils/bundle"
)

// MissingRequiredBundleError reports that owner's Require-Bundle
// requirement has no satisfying candidate in the registry.
type MissingRequiredBundleError struct {
	Owner       *bundle.BundleInfo
	Requirement bundle.RequiredBundle
}

func (e *MissingRequiredBundleError) Error() string {
	return fmt.Sprintf("%s: missing required bundle %s", e.Owner.SymbolicName, e.Requirement)
}

// MissingImportedPackageError reports that owner's Import-Package
// requirement has no satisfying candidate in the registry.
type MissingImportedPackageError struct {
	Owner       *bundle.BundleInfo
	Requirement bundle.ImportedPackage
}

func (e *MissingImportedPackageError) Error() string {
	return fmt.Sprintf("%s: missing imported package %s", e.Owner.SymbolicName, e.Requirement)
}

// MissingFragmentHostError reports that owner's Fragment-Host link has no
// satisfying candidate in the registry.
type MissingFragmentHostError struct {
	Owner       *bundle.BundleInfo
	Requirement bundle.FragmentHost
}

func (e *MissingFragmentHostError) Error() string {
	return fmt.Sprintf("%s: missing fragment host %s", e.Owner.SymbolicName, e.Requirement)
}

// DependencyCycleError is the hard failure raised when transitive
// traversal revisits a bundle already on the current path. Path is the
// ordered list of bundles forming the cycle; its first and last entries
// are the same bundle, closing the cycle.
type DependencyCycleError struct {
	Path []*bundle.BundleInfo
}

func (e *DependencyCycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, b := range e.Path {
		names[i] = b.SymbolicName
	}
	return fmt.Sprintf("dependency cycle: %s", strings.Join(names, " -> "))
}
