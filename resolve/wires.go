package resolve

import (
	"github.com/JackSullivan/osgiutils/bundle"
	"github.com/JackSullivan/osgiutils/registry"
)

// wireKind distinguishes the three dependency shapes a bundle can declare.
// A class-based source would model this with a small type hierarchy
// (RequiredBundleWire/ImportedPackageWire/FragmentHostWire); here it is a
// closed tag plus the one payload field each kind actually uses.
type wireKind int

const (
	wireRequiredBundle wireKind = iota
	wireImportedPackage
	wireFragmentHost
)

// wire is one shallow dependency of a bundle, paired with the ordered
// candidate list FindBundles* returned for it. Classification never
// repeats the candidate lookup; it interprets this already-fetched list
// and reads only the chosen candidate's resolve state from the registry.
type wire struct {
	kind       wireKind
	owner      *bundle.BundleInfo
	optional   bool
	candidates []*bundle.BundleInfo

	requiredBundle  bundle.RequiredBundle
	importedPackage bundle.ImportedPackage
	fragmentHost    bundle.FragmentHost
}

// buildWires constructs one wire per RequiredBundle, one per
// ImportedPackage, and (if b is a fragment) one for its FragmentHost. When
// includeOptional is false, optional RequiredBundles and optional
// ImportedPackages are skipped entirely — not even attempted, so they
// never appear as a wire and can never produce a Missing* diagnostic.
func buildWires(reg *registry.Registry, b *bundle.BundleInfo, includeOptional bool) []wire {
	var wires []wire
	for _, rb := range b.RequiredBundles {
		if rb.Optional && !includeOptional {
			continue
		}
		wires = append(wires, wire{
			kind:           wireRequiredBundle,
			owner:          b,
			optional:       rb.Optional,
			candidates:     reg.FindBundlesForRequiredBundle(rb),
			requiredBundle: rb,
		})
	}
	for _, ip := range b.ImportedPackages {
		if ip.Optional && !includeOptional {
			continue
		}
		wires = append(wires, wire{
			kind:            wireImportedPackage,
			owner:           b,
			optional:        ip.Optional,
			candidates:      reg.FindBundlesForImportedPackage(ip),
			importedPackage: ip,
		})
	}
	if b.IsFragment() {
		wires = append(wires, wire{
			kind:         wireFragmentHost,
			owner:        b,
			candidates:   reg.FindBundlesForFragmentHost(b.FragmentHost),
			fragmentHost: b.FragmentHost,
		})
	}
	return wires
}

// classify picks at most one candidate for w and reports the ResolverResult
// to record plus, if a candidate was chosen, the bundle to recurse into.
func (w wire) classify(reg *registry.Registry) (result ResolverResult, next *bundle.BundleInfo, hasNext bool) {
	switch w.kind {
	case wireRequiredBundle:
		cand, ok := firstNonOwner(w.candidates, w.owner)
		if !ok {
			if w.optional {
				return nil, nil, false
			}
			return MissingRequiredBundle{&MissingRequiredBundleError{Owner: w.owner, Requirement: w.requiredBundle}}, nil, false
		}
		return stateResult(reg, cand), cand, true

	case wireImportedPackage:
		if len(w.candidates) == 0 {
			if w.optional {
				return nil, nil, false
			}
			return MissingImportedPackage{&MissingImportedPackageError{Owner: w.owner, Requirement: w.importedPackage}}, nil, false
		}
		if len(w.candidates) == 1 && w.candidates[0].Equal(w.owner) {
			// A bundle may import what it exports; that is not a dependency.
			return nil, nil, false
		}
		cand := w.candidates[0]
		if cand.Equal(w.owner) {
			cand = w.candidates[1]
		}
		return stateResult(reg, cand), cand, true

	case wireFragmentHost:
		cand, ok := firstNonOwner(w.candidates, w.owner)
		if !ok {
			return MissingFragmentHost{&MissingFragmentHostError{Owner: w.owner, Requirement: w.fragmentHost}}, nil, false
		}
		return stateResult(reg, cand), cand, true
	}
	panic("resolve: unreachable wire kind")
}

// firstNonOwner returns the highest-priority candidate that is not
// structurally equal to owner, skipping internal self-matches, per the
// RequiredBundle/FragmentHost classification rule.
func firstNonOwner(candidates []*bundle.BundleInfo, owner *bundle.BundleInfo) (*bundle.BundleInfo, bool) {
	for _, c := range candidates {
		if !c.Equal(owner) {
			return c, true
		}
	}
	return nil, false
}

func stateResult(reg *registry.Registry, b *bundle.BundleInfo) ResolverResult {
	if reg.IsResolved(b) {
		return Resolved{Bundle: b}
	}
	return Unresolved{Bundle: b}
}
