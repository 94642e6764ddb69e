package registry

import (
	"go.uber.org/multierr"

	"github.com/JackSullivan/osgiutils/bundle"
)

// addAll runs add over every bundle in infos, continuing past a rejected
// one and combining every error with multierr instead of stopping at the
// first failure.
func addAll(infos []*bundle.BundleInfo, add func(*bundle.BundleInfo) (int, error)) error {
	var errs []error
	for _, info := range infos {
		if _, err := add(info); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
