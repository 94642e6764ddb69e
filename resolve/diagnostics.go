package resolve

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Err combines every missing-dependency diagnostic in d into a single
// error via multierr, for callers that want a conventional error value
// instead of switching over the tagged variants themselves. It returns
// nil if d has no missing-dependency diagnostics.
func (d Diagnostics) Err() error {
	var errs []error
	for _, r := range d.Missing() {
		switch v := r.(type) {
		case MissingRequiredBundle:
			errs = append(errs, v.MissingRequiredBundleError)
		case MissingImportedPackage:
			errs = append(errs, v.MissingImportedPackageError)
		case MissingFragmentHost:
			errs = append(errs, v.MissingFragmentHostError)
		}
	}
	return multierr.Combine(errs...)
}

// Format renders every missing-dependency diagnostic in d as one
// newline-joined, OSGi-familiar message per entry (e.g. `Missing required
// bundle p;version="[1,2)"`), using each requirement's
// canonical string form instead of a generic error string.
func (d Diagnostics) Format() string {
	var b strings.Builder
	for i, r := range d.Missing() {
		if i > 0 {
			b.WriteString("\n")
		}
		switch v := r.(type) {
		case MissingRequiredBundle:
			fmt.Fprintf(&b, "Missing required bundle %s", v.Requirement)
		case MissingImportedPackage:
			fmt.Fprintf(&b, "Missing imported package %s", v.Requirement)
		case MissingFragmentHost:
			fmt.Fprintf(&b, "Missing fragment host %s", v.Requirement)
		}
	}
	return b.String()
}
