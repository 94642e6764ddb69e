// Package resolve is the dependency engine: shallow wire construction per
// declared dependency, transitive traversal with cycle detection, a
// per-call memoization cache, and the Unresolved/Resolved state machine
// that CalculateRequiredBundles and ResolveBundle/ResolveBundles/
// IsResolved implement over a registry.Registry.
package resolve

import (
	"github.com/JackSullivan/osgiutils/bundle"
	"github.com/JackSullivan/osgiutils/log"
	"github.com/JackSullivan/osgiutils/registry"
)

// Resolver is the dependency engine: wire construction, candidate
// classification, transitive traversal with cycle detection, and the
// Unresolved/Resolved state machine, all layered over a Registry.
type Resolver struct {
	reg *registry.Registry
}

// New returns a Resolver operating over reg.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Diagnostics is a deduplicated set of ResolverResult values: every
// transitively reachable dependency (as Unresolved or Resolved) and every
// missing-dependency diagnostic encountered while computing them.
// Elements are deduplicated by structural equality of the variant and its
// bundle/requirement.
type Diagnostics []ResolverResult

// Missing returns only the three Missing* variants in d.
func (d Diagnostics) Missing() []ResolverResult {
	var out []ResolverResult
	for _, r := range d {
		switch r.(type) {
		case MissingRequiredBundle, MissingImportedPackage, MissingFragmentHost:
			out = append(out, r)
		}
	}
	return out
}

// CalculateRequiredBundles walks every dependency b declares, transitively,
// building one wire per RequiredBundle/ImportedPackage (skipping optional
// ones unless includeOptional) and one for a FragmentHost, classifying
// each, and recursing into whatever candidate each wire chose. It returns
// a DependencyCycleError if the walk revisits a bundle already on the
// current path.
func (r *Resolver) CalculateRequiredBundles(b *bundle.BundleInfo, includeOptional bool) (Diagnostics, error) {
	e := &explorer{reg: r.reg, includeOptional: includeOptional, cache: make(map[*bundle.BundleInfo]Diagnostics)}
	return e.explore(b, nil)
}

// explorer carries the per-call memoization cache: a bundle fully
// explored once during a CalculateRequiredBundles call is never
// re-walked within that same call.
type explorer struct {
	reg             *registry.Registry
	includeOptional bool
	cache           map[*bundle.BundleInfo]Diagnostics
}

func (e *explorer) explore(b *bundle.BundleInfo, path []*bundle.BundleInfo) (Diagnostics, error) {
	if cached, ok := e.cache[b]; ok {
		return cached, nil
	}
	currentPath := append(append([]*bundle.BundleInfo{}, path...), b)

	var results Diagnostics
	seen := make(map[string]bool)
	add := func(r ResolverResult) {
		key := resultKey(r)
		if !seen[key] {
			seen[key] = true
			results = append(results, r)
		}
	}

	for _, w := range buildWires(e.reg, b, e.includeOptional) {
		result, next, hasNext := w.classify(e.reg)
		if result != nil {
			add(result)
		}
		if !hasNext {
			continue
		}
		if idx := indexOfEqual(currentPath, next); idx >= 0 {
			cycle := append(append([]*bundle.BundleInfo{}, currentPath[idx:]...), next)
			log.Warnf("resolve: dependency cycle detected at %s", log.BundleRef(next.SymbolicName, next.Version))
			return nil, &DependencyCycleError{Path: cycle}
		}
		sub, err := e.explore(next, currentPath)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			add(s)
		}
	}

	e.cache[b] = results
	return results, nil
}

// indexOfEqual returns the index of the first bundle in path structurally
// equal to b, or -1. Path membership is structural, matching the
// registry's own identity rule, not pointer identity.
func indexOfEqual(path []*bundle.BundleInfo, b *bundle.BundleInfo) int {
	for i, p := range path {
		if p.Equal(b) {
			return i
		}
	}
	return -1
}
