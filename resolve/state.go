package resolve

import (
	"github.com/JackSullivan/osgiutils/bundle"
	"github.com/JackSullivan/osgiutils/log"
)

// ResolveBundle computes b's missing-dependency diagnostics and, if there
// are none, transitions b to Resolved in the registry. If b is already
// Resolved, it returns immediately with no diagnostics. A DependencyCycle
// encountered while computing b's transitive dependencies propagates as
// an error instead of a diagnostic; b is left Unresolved in that case.
func (r *Resolver) ResolveBundle(b *bundle.BundleInfo) (Diagnostics, error) {
	if r.reg.IsResolved(b) {
		return nil, nil
	}
	all, err := r.CalculateRequiredBundles(b, false)
	if err != nil {
		return nil, err
	}
	missing := Diagnostics(all.Missing())
	if len(missing) == 0 {
		r.reg.MarkResolved(b)
		log.Debugf("resolve: %s is now resolved", log.BundleRef(b.SymbolicName, b.Version))
		return nil, nil
	}
	log.Debugf("resolve: %s left unresolved: %s", log.BundleRef(b.SymbolicName, b.Version), missing.Format())
	return missing, nil
}

// ResolveBundles iterates every registered bundle in insertion order,
// calling ResolveBundle on each and folding the diagnostics. The
// operation is idempotent and monotonic: calling it again can only
// transition unresolved bundles to resolved, never the reverse, and
// registering a new bundle before a later call can resolve previously
// failed bundles.
//
// A DependencyCycleError encountered for any bundle aborts the remainder
// of the walk: the caller cannot proceed with a meaningful resolution for
// bundles in that cycle, so ResolveBundles fails fast and returns the
// diagnostics already accumulated for bundles processed so far, plus the
// cycle error. A caller that wants to resolve bundles unaffected by the
// cycle can call ResolveBundle directly on each.
func (r *Resolver) ResolveBundles() (Diagnostics, error) {
	var all Diagnostics
	for _, b := range r.reg.All() {
		diags, err := r.ResolveBundle(b)
		if err != nil {
			return all, err
		}
		all = append(all, diags...)
	}
	return all, nil
}

// IsResolved reports whether b is currently recorded as Resolved in the
// registry.
func (r *Resolver) IsResolved(b *bundle.BundleInfo) bool {
	return r.reg.IsResolved(b)
}
