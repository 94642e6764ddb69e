// Package registry implements the in-memory bundle registry: three
// ordered indexes over added bundles, structural-duplicate rejection,
// monotonic bundle IDs, and the deterministic priority ordering every
// lookup returns candidates in.
package registry

import (
	"strings"

	"github.com/JackSullivan/osgiutils/bundle"
	"github.com/JackSullivan/osgiutils/log"
	"github.com/JackSullivan/osgiutils/version"
)

// SystemBundleSymbolicName is the fixed symbolic name of the synthetic
// bundle seeded at construction.
const SystemBundleSymbolicName = "system.bundle"

// entry is a registered bundle plus the registry-assigned state that
// does not belong on bundle.BundleInfo itself: its ID and its current
// resolve state.
type entry struct {
	id       int
	info     *bundle.BundleInfo
	resolved bool
}

type exportEntry struct {
	export ExportedPackage
	owner  *entry
}

// ExportedPackage is an alias kept local to this package's exported-package
// index so call sites outside the package never need to import bundle for
// this plumbing; it is exactly bundle.ExportedPackage.
type ExportedPackage = bundle.ExportedPackage

// Registry is the indexed, in-memory bundle store described by the
// registry/resolver specification: a symbolic-name index, an
// exported-package index, and a fragment-host index, each preserving
// insertion order for deterministic tie-breaking.
//
// Registry is not safe for concurrent use; wrap it in Concurrent if
// multiple goroutines must share one registry.
type Registry struct {
	nextID int
	all    []*entry

	byName         map[string][]*entry
	byExportedPkg  map[string][]*exportEntry
	byFragmentHost map[string][]*entry
}

// New constructs a Registry and seeds it with the synthetic system bundle:
// symbolic name "system.bundle", ID 0, exporting the packages named in
// systemPackages with systemPackagesExtra appended (both comma-separated
// lists). Both strings are read once, at construction; a Registry never
// re-reads them.
func New(systemPackages, systemPackagesExtra string) *Registry {
	r := &Registry{
		byName:         make(map[string][]*entry),
		byExportedPkg:  make(map[string][]*exportEntry),
		byFragmentHost: make(map[string][]*entry),
	}
	r.insert(systemBundle(systemPackages, systemPackagesExtra))
	return r
}

func systemBundle(systemPackages, systemPackagesExtra string) *bundle.BundleInfo {
	combined := systemPackages
	if systemPackagesExtra != "" {
		if combined != "" {
			combined += ","
		}
		combined += systemPackagesExtra
	}
	names := splitPackageList(combined)
	exports := make([]bundle.ExportedPackage, 0, len(names))
	for _, name := range names {
		exports = append(exports, bundle.ExportedPackage{Name: name, Version: version.Default})
	}
	return &bundle.BundleInfo{
		ManifestVersion:  1,
		SymbolicName:     SystemBundleSymbolicName,
		Version:          version.Default,
		ExportedPackages: exports,
	}
}

func splitPackageList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// Add registers info. It rejects a structurally equal bundle already
// present with AlreadyRegisteredError; otherwise it assigns info the next
// monotonic ID, inserts it into the three indexes in insertion order, and
// leaves it Unresolved.
func (r *Registry) Add(info *bundle.BundleInfo) (int, error) {
	if existing := r.findDuplicate(info); existing != nil {
		return 0, &AlreadyRegisteredError{Bundle: info}
	}
	e := r.insert(info)
	log.Debugf("registry: added bundle %s as id %d", log.BundleRef(info.SymbolicName, info.Version), e.id)
	return e.id, nil
}

func (r *Registry) findDuplicate(info *bundle.BundleInfo) *entry {
	for _, e := range r.byName[info.SymbolicName] {
		if e.info.Equal(info) {
			return e
		}
	}
	return nil
}

func (r *Registry) insert(info *bundle.BundleInfo) *entry {
	e := &entry{id: r.nextID, info: info}
	r.nextID++
	r.all = append(r.all, e)
	r.byName[info.SymbolicName] = append(r.byName[info.SymbolicName], e)
	for _, ep := range info.ExportedPackages {
		r.byExportedPkg[ep.Name] = append(r.byExportedPkg[ep.Name], &exportEntry{export: ep, owner: e})
	}
	if info.IsFragment() {
		r.byFragmentHost[info.FragmentHost.SymbolicName] = append(r.byFragmentHost[info.FragmentHost.SymbolicName], e)
	}
	return e
}

// AddAll adds every bundle in infos, continuing past a rejected one and
// aggregating every AlreadyRegisteredError with multierr instead of
// stopping at the first duplicate.
func (r *Registry) AddAll(infos []*bundle.BundleInfo) error {
	return addAll(infos, r.Add)
}

// All returns every registered bundle in insertion order, the order
// ResolveBundles iterates.
func (r *Registry) All() []*bundle.BundleInfo {
	out := make([]*bundle.BundleInfo, len(r.all))
	for i, e := range r.all {
		out[i] = e.info
	}
	return out
}

// ID returns the registry-assigned ID of b and whether b is registered.
// Identity is structural: b need not be the same pointer the registry
// holds, only structurally Equal to it.
func (r *Registry) ID(b *bundle.BundleInfo) (int, bool) {
	e := r.findDuplicate(b)
	if e == nil {
		return 0, false
	}
	return e.id, true
}

// IsResolved reports whether b is currently recorded as Resolved. A b not
// present in the registry is never resolved.
func (r *Registry) IsResolved(b *bundle.BundleInfo) bool {
	e := r.findDuplicate(b)
	return e != nil && e.resolved
}

// MarkResolved transitions b to the Resolved state if b is registered. It
// reports whether b was found. Calling it on an already-resolved bundle is
// a no-op.
func (r *Registry) MarkResolved(b *bundle.BundleInfo) bool {
	e := r.findDuplicate(b)
	if e == nil {
		return false
	}
	e.resolved = true
	return true
}

// FindBundles returns every registered bundle with the given symbolic name
// whose version is contained in rng, in priority order (best candidate
// first).
func (r *Registry) FindBundles(name string, rng version.Range) []*bundle.BundleInfo {
	var cands []candidate
	for _, e := range r.byName[name] {
		if rng.Contains(e.info.Version) {
			cands = append(cands, candidateOf(e))
		}
	}
	return toInfos(sortByPriority(cands))
}

// FindBundle returns the highest-priority match for FindBundles, or false
// if there is none.
func (r *Registry) FindBundle(name string, rng version.Range) (*bundle.BundleInfo, bool) {
	return head(r.FindBundles(name, rng))
}

// FindBundlesForRequiredBundle delegates to FindBundles using rb's
// symbolic name and version range.
func (r *Registry) FindBundlesForRequiredBundle(rb bundle.RequiredBundle) []*bundle.BundleInfo {
	return r.FindBundles(rb.SymbolicName, rb.Version)
}

// FindBundleForRequiredBundle is the single-result form of
// FindBundlesForRequiredBundle.
func (r *Registry) FindBundleForRequiredBundle(rb bundle.RequiredBundle) (*bundle.BundleInfo, bool) {
	return head(r.FindBundlesForRequiredBundle(rb))
}

// FindBundlesForFragmentHost delegates to FindBundles using fh's symbolic
// name and version range.
func (r *Registry) FindBundlesForFragmentHost(fh bundle.FragmentHost) []*bundle.BundleInfo {
	return r.FindBundles(fh.SymbolicName, fh.Version)
}

// FindBundleForFragmentHost is the single-result form of
// FindBundlesForFragmentHost.
func (r *Registry) FindBundleForFragmentHost(fh bundle.FragmentHost) (*bundle.BundleInfo, bool) {
	return head(r.FindBundlesForFragmentHost(fh))
}

// FindBundlesForImportedPackage returns every registered bundle exporting
// a package satisfying ip, in priority order. A candidate export must
// satisfy all of: its version is in ip's version range; if ip names a
// bundleSymbolicName, the owning bundle's symbolic name matches; the
// owning bundle's version is in ip's bundleVersion range; every name in
// the export's mandatoryAttributes is a key of ip's matchingAttributes;
// and every key/value pair of ip's matchingAttributes is present with the
// same value in the export's matchingAttributes.
func (r *Registry) FindBundlesForImportedPackage(ip bundle.ImportedPackage) []*bundle.BundleInfo {
	var cands []candidate
	seen := make(map[int]bool)
	for _, ee := range r.byExportedPkg[ip.Name] {
		if !importMatches(ip, ee) {
			continue
		}
		if seen[ee.owner.id] {
			continue
		}
		seen[ee.owner.id] = true
		cands = append(cands, candidateOf(ee.owner))
	}
	return toInfos(sortByPriority(cands))
}

// FindBundleForImportedPackage is the single-result form of
// FindBundlesForImportedPackage.
func (r *Registry) FindBundleForImportedPackage(ip bundle.ImportedPackage) (*bundle.BundleInfo, bool) {
	return head(r.FindBundlesForImportedPackage(ip))
}

func importMatches(ip bundle.ImportedPackage, ee *exportEntry) bool {
	if !ip.Version.Contains(ee.export.Version) {
		return false
	}
	if ip.BundleSymbolicName != "" && ip.BundleSymbolicName != ee.owner.info.SymbolicName {
		return false
	}
	if !ip.BundleVersion.Contains(ee.owner.info.Version) {
		return false
	}
	for _, mandatory := range ee.export.MandatoryAttributes.Elements() {
		if _, ok := ip.MatchingAttributes[mandatory]; !ok {
			return false
		}
	}
	for k, v := range ip.MatchingAttributes {
		if ee.export.MatchingAttributes[k] != v {
			return false
		}
	}
	return true
}

// FindFragments returns every registered fragment bundle whose
// Fragment-Host names b's symbolic name and whose fragmentHost version
// range contains b's version, in priority order.
func (r *Registry) FindFragments(b *bundle.BundleInfo) []*bundle.BundleInfo {
	var cands []candidate
	for _, e := range r.byFragmentHost[b.SymbolicName] {
		if e.info.FragmentHost.Version.Contains(b.Version) {
			cands = append(cands, candidateOf(e))
		}
	}
	return toInfos(sortByPriority(cands))
}
