// Package bundle defines the in-memory OSGi bundle model produced by
// package manifest and consumed by package registry and package resolve:
// ImportedPackage, ExportedPackage, RequiredBundle, FragmentHost, and the
// BundleInfo that aggregates them.
package bundle

import (
	"fmt"
	"sort"
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/JackSullivan/osgiutils/version"
)

// Extension identifies the kind of a Fragment-Host extension directive.
type Extension int

const (
	// ExtensionNone means the fragment is an ordinary bundle fragment.
	ExtensionNone Extension = iota
	// ExtensionFramework means the fragment attaches to the framework itself.
	ExtensionFramework
	// ExtensionBootClassPath means the fragment attaches to the boot classpath.
	ExtensionBootClassPath
)

// ImportedPackage is a declared Import-Package dependency on a package
// name, optionally scoped to an exporting bundle and filtered by matching
// attributes.
type ImportedPackage struct {
	Name                string
	Optional            bool
	Version             version.Range
	BundleSymbolicName  string // empty if unconstrained
	BundleVersion       version.Range
	MatchingAttributes  map[string]string
}

// String renders the canonical Import-Package clause form for this import.
func (p ImportedPackage) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteString(";resolution:=optional")
	}
	if !p.Version.IsDefault() {
		fmt.Fprintf(&b, ";version=%q", p.Version.String())
	}
	if p.BundleSymbolicName != "" {
		fmt.Fprintf(&b, ";bundle-symbolic-name=%s", p.BundleSymbolicName)
	}
	if !p.BundleVersion.IsDefault() {
		fmt.Fprintf(&b, ";bundle-version=%q", p.BundleVersion.String())
	}
	writeSortedAttributes(&b, p.MatchingAttributes)
	return b.String()
}

// ExportedPackage is a declared Export-Package capability: a package name
// at a concrete version, with OSGi's "uses", mandatory-attribute,
// include/exclude, and matching-attribute modifiers.
type ExportedPackage struct {
	Name                string
	Version             version.Version
	Uses                stringset.Set
	MandatoryAttributes stringset.Set
	IncludedClasses     stringset.Set
	ExcludedClasses     stringset.Set
	MatchingAttributes  map[string]string
}

// String renders the canonical Export-Package clause form for this export.
func (p ExportedPackage) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if !p.Version.Equal(version.Default) {
		fmt.Fprintf(&b, ";version=%q", p.Version.String())
	}
	if !p.Uses.Empty() {
		fmt.Fprintf(&b, ";uses:=%q", strings.Join(p.Uses.Elements(), ","))
	}
	if !p.MandatoryAttributes.Empty() {
		fmt.Fprintf(&b, ";mandatory:=%s", strings.Join(p.MandatoryAttributes.Elements(), ","))
	}
	if !p.IncludedClasses.Empty() {
		fmt.Fprintf(&b, ";include:=%s", strings.Join(p.IncludedClasses.Elements(), ","))
	}
	if !p.ExcludedClasses.Empty() {
		fmt.Fprintf(&b, ";exclude:=%s", strings.Join(p.ExcludedClasses.Elements(), ","))
	}
	writeSortedAttributes(&b, p.MatchingAttributes)
	return b.String()
}

// RequiredBundle is a declared Require-Bundle dependency on another
// bundle's symbolic name and version range.
type RequiredBundle struct {
	SymbolicName string
	Optional     bool
	Version      version.Range
	Reexport     bool
}

// String renders the canonical Require-Bundle clause form. Per OSGi
// convention the emit order is version;resolution;visibility.
func (r RequiredBundle) String() string {
	var b strings.Builder
	b.WriteString(r.SymbolicName)
	if !r.Version.IsDefault() {
		fmt.Fprintf(&b, ";version=%q", r.Version.String())
	}
	if r.Optional {
		b.WriteString(";resolution:=optional")
	}
	if r.Reexport {
		b.WriteString(";visibility:=reexport")
	}
	return b.String()
}

// FragmentHost is a declared Fragment-Host link to a host bundle.
type FragmentHost struct {
	SymbolicName string
	Version      version.Range
	Extension    Extension
}

// IsZero reports whether h is the empty (absent) FragmentHost.
func (h FragmentHost) IsZero() bool { return h.SymbolicName == "" }

// String renders the canonical Fragment-Host clause form.
func (h FragmentHost) String() string {
	var b strings.Builder
	b.WriteString(h.SymbolicName)
	if !h.Version.IsDefault() {
		fmt.Fprintf(&b, ";version=%q", h.Version.String())
	}
	switch h.Extension {
	case ExtensionFramework:
		b.WriteString(";extension:=framework")
	case ExtensionBootClassPath:
		b.WriteString(";extension:=bootclasspath")
	}
	return b.String()
}

// BundleInfo is the fully parsed representation of an OSGi bundle
// manifest. Identity inside a registry is by deep structural equality of
// this type; the registry separately assigns each added bundle a
// monotonic numeric ID.
type BundleInfo struct {
	ManifestVersion   int // 1 or 2; 1 if the header was absent
	SymbolicName      string
	Name              string
	Description       string
	Version           version.Version
	FragmentHost      FragmentHost // zero value means "not a fragment"
	ExportedPackages  []ExportedPackage
	ImportedPackages  []ImportedPackage
	RequiredBundles   []RequiredBundle
	RawHeaders        map[string]string // pass-through for unrecognized/raw header lookups
}

// IsFragment reports whether this bundle declares a Fragment-Host.
func (b *BundleInfo) IsFragment() bool { return !b.FragmentHost.IsZero() }

// Header returns the raw, unparsed value of the named header, and
// whether it was present.
func (b *BundleInfo) Header(name string) (string, bool) {
	v, ok := b.RawHeaders[name]
	return v, ok
}

// Equal reports whether b and other describe the same bundle by deep
// structural equality: a bundle's identity inside the registry is
// structural, not reference-based.
func (b *BundleInfo) Equal(other *BundleInfo) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	if b.ManifestVersion != other.ManifestVersion ||
		b.SymbolicName != other.SymbolicName ||
		b.Name != other.Name ||
		b.Description != other.Description ||
		!b.Version.Equal(other.Version) ||
		b.FragmentHost != other.FragmentHost {
		return false
	}
	if len(b.ExportedPackages) != len(other.ExportedPackages) ||
		len(b.ImportedPackages) != len(other.ImportedPackages) ||
		len(b.RequiredBundles) != len(other.RequiredBundles) {
		return false
	}
	for i := range b.ExportedPackages {
		if !exportedPackagesEqual(b.ExportedPackages[i], other.ExportedPackages[i]) {
			return false
		}
	}
	for i := range b.ImportedPackages {
		if !importedPackagesEqual(b.ImportedPackages[i], other.ImportedPackages[i]) {
			return false
		}
	}
	for i := range b.RequiredBundles {
		if b.RequiredBundles[i] != other.RequiredBundles[i] {
			return false
		}
	}
	return true
}

func exportedPackagesEqual(a, b ExportedPackage) bool {
	return a.Name == b.Name &&
		a.Version.Equal(b.Version) &&
		setEqual(a.Uses, b.Uses) &&
		setEqual(a.MandatoryAttributes, b.MandatoryAttributes) &&
		setEqual(a.IncludedClasses, b.IncludedClasses) &&
		setEqual(a.ExcludedClasses, b.ExcludedClasses) &&
		mapsEqual(a.MatchingAttributes, b.MatchingAttributes)
}

func setEqual(a, b stringset.Set) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, e := range a.Elements() {
		if !b.Contains(e) {
			return false
		}
	}
	return true
}

func importedPackagesEqual(a, b ImportedPackage) bool {
	return a.Name == b.Name &&
		a.Optional == b.Optional &&
		a.Version.String() == b.Version.String() &&
		a.BundleSymbolicName == b.BundleSymbolicName &&
		a.BundleVersion.String() == b.BundleVersion.String() &&
		mapsEqual(a.MatchingAttributes, b.MatchingAttributes)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func writeSortedAttributes(b *strings.Builder, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, ";%s=%q", k, attrs[k])
	}
}
