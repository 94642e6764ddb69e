// Package manifest turns a raw OSGi bundle manifest header map into a
// bundle.BundleInfo, enforcing OSGi R4 semantics. The core entry point,
// ParseHeaders, takes the header map the caller already extracted from a
// manifest's textual representation — this package does no file or
// archive I/O of its own. ParseManifest is a convenience for callers that
// already have an open reader over a raw MANIFEST.MF-shaped stream.
package manifest

import (
	"strconv"
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/JackSullivan/osgiutils/bundle"
	"github.com/JackSullivan/osgiutils/internal/header"
	"github.com/JackSullivan/osgiutils/log"
	"github.com/JackSullivan/osgiutils/version"
)

// Recognized header names.
const (
	headerManifestVersion = "Bundle-ManifestVersion"
	headerSymbolicName    = "Bundle-SymbolicName"
	headerVersion         = "Bundle-Version"
	headerName            = "Bundle-Name"
	headerDescription     = "Bundle-Description"
	headerFragmentHost    = "Fragment-Host"
	headerImportPackage   = "Import-Package"
	headerExportPackage   = "Export-Package"
	headerRequireBundle   = "Require-Bundle"
)

// ParseHeaders parses a manifest's headers (already split into name/raw
// value pairs by the caller) into a BundleInfo. It returns an
// *InvalidBundleError if the manifest violates OSGi R4 semantics.
func ParseHeaders(headers map[string]string) (*bundle.BundleInfo, error) {
	info := &bundle.BundleInfo{RawHeaders: headers}

	mv, err := parseManifestVersion(headers[headerManifestVersion])
	if err != nil {
		return nil, err
	}
	info.ManifestVersion = mv

	symbolicName, err := parseSymbolicName(headers[headerSymbolicName])
	if err != nil {
		return nil, err
	}
	info.SymbolicName = symbolicName

	info.Name = headers[headerName]
	info.Description = headers[headerDescription]

	v, err := parseBundleVersion(headers[headerVersion])
	if err != nil {
		return nil, err
	}
	info.Version = v

	if raw, ok := headers[headerFragmentHost]; ok && raw != "" {
		fh, err := parseFragmentHost(raw)
		if err != nil {
			return nil, err
		}
		info.FragmentHost = fh
	}

	imports, err := parseImportPackage(headers[headerImportPackage])
	if err != nil {
		return nil, err
	}
	info.ImportedPackages = imports

	exports, err := parseExportPackage(headers[headerExportPackage])
	if err != nil {
		return nil, err
	}
	info.ExportedPackages = exports

	required, err := parseRequireBundle(headers[headerRequireBundle])
	if err != nil {
		return nil, err
	}
	info.RequiredBundles = required

	log.Debugf("manifest: parsed bundle %s", log.BundleRef(info.SymbolicName, info.Version))
	return info, nil
}

func parseManifestVersion(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalidBundlef("Bundle-ManifestVersion %q is not an integer", raw)
	}
	return n, nil
}

func parseSymbolicName(raw string) (string, error) {
	if raw == "" {
		return "", invalidBundlef("Bundle-SymbolicName is required")
	}
	clauses := header.SplitClauses(raw)
	tokens := header.SplitTokens(clauses[0])
	if len(tokens) == 0 {
		return "", invalidBundlef("Bundle-SymbolicName is empty")
	}
	name := header.ParseToken(tokens[0]).Name
	if name == "" {
		return "", invalidBundlef("Bundle-SymbolicName is empty")
	}
	return name, nil
}

func parseBundleVersion(raw string) (version.Version, error) {
	if raw == "" {
		return version.Default, nil
	}
	v, err := version.Parse(strings.TrimSpace(raw))
	if err != nil {
		return version.Version{}, invalidBundlef("Bundle-Version: %v", err)
	}
	return v, nil
}

func parseFragmentHost(raw string) (bundle.FragmentHost, error) {
	clauses := header.SplitClauses(raw)
	if len(clauses) > 1 {
		return bundle.FragmentHost{}, invalidBundlef("Fragment-Host must have at most one clause, got %d", len(clauses))
	}
	tokens := header.SplitTokens(clauses[0])
	if len(tokens) == 0 {
		return bundle.FragmentHost{}, invalidBundlef("Fragment-Host is empty")
	}
	fh := bundle.FragmentHost{Version: version.DefaultRange}
	seenName := false
	for _, t := range tokens {
		tok := header.ParseToken(t)
		if tok.IsName() {
			if seenName {
				return bundle.FragmentHost{}, invalidBundlef("Fragment-Host clause has more than one host name")
			}
			fh.SymbolicName = tok.Name
			seenName = true
			continue
		}
		switch {
		case tok.Directive && strings.EqualFold(tok.Name, "extension"):
			switch strings.ToLower(tok.Value) {
			case "framework":
				fh.Extension = bundle.ExtensionFramework
			case "bootclasspath":
				fh.Extension = bundle.ExtensionBootClassPath
			default:
				return bundle.FragmentHost{}, invalidBundlef("Fragment-Host: unknown extension directive value %q", tok.Value)
			}
		case !tok.Directive && strings.EqualFold(tok.Name, "bundle-version"):
			r, err := version.ParseRange(tok.Value)
			if err != nil {
				return bundle.FragmentHost{}, invalidBundlef("Fragment-Host: bundle-version: %v", err)
			}
			fh.Version = r
		default:
			// Unrecognized directive/parameter: silently ignored.
		}
	}
	if !seenName {
		return bundle.FragmentHost{}, invalidBundlef("Fragment-Host has no host symbolic name")
	}
	return fh, nil
}

func parseImportPackage(raw string) ([]bundle.ImportedPackage, error) {
	if raw == "" {
		return nil, nil
	}
	var result []bundle.ImportedPackage
	seen := make(map[string]bool)
	for _, clause := range header.SplitClauses(raw) {
		tokens := header.SplitTokens(clause)
		var names []string
		optional := false
		versionRange := version.DefaultRange
		bundleSymbolicName := ""
		bundleVersionRange := version.DefaultRange
		matching := map[string]string{}
		haveVersion := false
		for _, t := range tokens {
			tok := header.ParseToken(t)
			if tok.IsName() {
				names = append(names, tok.Name)
				continue
			}
			switch {
			case tok.Directive && strings.EqualFold(tok.Name, "resolution"):
				switch strings.ToLower(tok.Value) {
				case "optional":
					optional = true
				case "mandatory":
					// default
				default:
					return nil, invalidBundlef("Import-Package: unknown resolution directive value %q", tok.Value)
				}
			case !tok.Directive && strings.EqualFold(tok.Name, "version"):
				r, err := version.ParseRange(tok.Value)
				if err != nil {
					return nil, invalidBundlef("Import-Package: version: %v", err)
				}
				if haveVersion && versionRange.String() != r.String() {
					return nil, invalidBundlef("Import-Package: version and specification-version disagree")
				}
				versionRange = r
				haveVersion = true
			case !tok.Directive && strings.EqualFold(tok.Name, "specification-version"):
				r, err := version.ParseRange(tok.Value)
				if err != nil {
					return nil, invalidBundlef("Import-Package: specification-version: %v", err)
				}
				if haveVersion && versionRange.String() != r.String() {
					return nil, invalidBundlef("Import-Package: version and specification-version disagree")
				}
				versionRange = r
				haveVersion = true
			case !tok.Directive && strings.EqualFold(tok.Name, "bundle-symbolic-name"):
				bundleSymbolicName = tok.Value
			case !tok.Directive && strings.EqualFold(tok.Name, "bundle-version"):
				r, err := version.ParseRange(tok.Value)
				if err != nil {
					return nil, invalidBundlef("Import-Package: bundle-version: %v", err)
				}
				bundleVersionRange = r
			case !tok.Directive:
				matching[tok.Name] = tok.Value
			default:
				// Unrecognized directive: silently ignored.
			}
		}
		if len(names) == 0 {
			return nil, invalidBundlef("Import-Package clause has no package name")
		}
		for _, name := range names {
			if seen[name] {
				return nil, invalidBundlef("Import-Package: duplicate import of package %q", name)
			}
			seen[name] = true
			result = append(result, bundle.ImportedPackage{
				Name:               name,
				Optional:           optional,
				Version:            versionRange,
				BundleSymbolicName: bundleSymbolicName,
				BundleVersion:      bundleVersionRange,
				MatchingAttributes: matching,
			})
		}
	}
	return result, nil
}

func parseExportPackage(raw string) ([]bundle.ExportedPackage, error) {
	if raw == "" {
		return nil, nil
	}
	var result []bundle.ExportedPackage
	for _, clause := range header.SplitClauses(raw) {
		tokens := header.SplitTokens(clause)
		var names []string
		v := version.Default
		uses := stringset.New()
		mandatory := stringset.New()
		included := stringset.New()
		excluded := stringset.New()
		matching := map[string]string{}
		haveVersion := false
		for _, t := range tokens {
			tok := header.ParseToken(t)
			if tok.IsName() {
				names = append(names, tok.Name)
				continue
			}
			switch {
			case tok.Directive && strings.EqualFold(tok.Name, "uses"):
				uses = stringset.New(splitCommaList(tok.Value)...)
			case tok.Directive && strings.EqualFold(tok.Name, "mandatory"):
				mandatory = stringset.New(splitCommaList(tok.Value)...)
			case tok.Directive && strings.EqualFold(tok.Name, "include"):
				included = stringset.New(splitCommaList(tok.Value)...)
			case tok.Directive && strings.EqualFold(tok.Name, "exclude"):
				excluded = stringset.New(splitCommaList(tok.Value)...)
			case !tok.Directive && strings.EqualFold(tok.Name, "version"):
				pv, err := version.Parse(tok.Value)
				if err != nil {
					return nil, invalidBundlef("Export-Package: version: %v", err)
				}
				if haveVersion && !v.Equal(pv) {
					return nil, invalidBundlef("Export-Package: version and specification-version disagree")
				}
				v = pv
				haveVersion = true
			case !tok.Directive && strings.EqualFold(tok.Name, "specification-version"):
				pv, err := version.Parse(tok.Value)
				if err != nil {
					return nil, invalidBundlef("Export-Package: specification-version: %v", err)
				}
				if haveVersion && !v.Equal(pv) {
					return nil, invalidBundlef("Export-Package: version and specification-version disagree")
				}
				v = pv
				haveVersion = true
			case !tok.Directive:
				matching[tok.Name] = tok.Value
			default:
				// Unrecognized directive: silently ignored.
			}
		}
		if len(names) == 0 {
			return nil, invalidBundlef("Export-Package clause has no package name")
		}
		for _, name := range names {
			result = append(result, bundle.ExportedPackage{
				Name:                name,
				Version:             v,
				Uses:                uses,
				MandatoryAttributes: mandatory,
				IncludedClasses:     included,
				ExcludedClasses:     excluded,
				MatchingAttributes:  matching,
			})
		}
	}
	return result, nil
}

func parseRequireBundle(raw string) ([]bundle.RequiredBundle, error) {
	if raw == "" {
		return nil, nil
	}
	var result []bundle.RequiredBundle
	for _, clause := range header.SplitClauses(raw) {
		tokens := header.SplitTokens(clause)
		rb := bundle.RequiredBundle{Version: version.DefaultRange}
		seenName := false
		for _, t := range tokens {
			tok := header.ParseToken(t)
			if tok.IsName() {
				if seenName {
					return nil, invalidBundlef("Require-Bundle clause has more than one bundle name")
				}
				rb.SymbolicName = tok.Name
				seenName = true
				continue
			}
			switch {
			case tok.Directive && strings.EqualFold(tok.Name, "visibility"):
				switch strings.ToLower(tok.Value) {
				case "reexport":
					rb.Reexport = true
				case "private":
					rb.Reexport = false
				default:
					return nil, invalidBundlef("Require-Bundle: unknown visibility directive value %q", tok.Value)
				}
			case tok.Directive && strings.EqualFold(tok.Name, "resolution"):
				switch strings.ToLower(tok.Value) {
				case "optional":
					rb.Optional = true
				case "mandatory":
					// default
				default:
					return nil, invalidBundlef("Require-Bundle: unknown resolution directive value %q", tok.Value)
				}
			case !tok.Directive && strings.EqualFold(tok.Name, "bundle-version"):
				r, err := version.ParseRange(tok.Value)
				if err != nil {
					return nil, invalidBundlef("Require-Bundle: bundle-version: %v", err)
				}
				rb.Version = r
			default:
				// Unrecognized directive/parameter: silently ignored.
			}
		}
		if !seenName {
			return nil, invalidBundlef("Require-Bundle clause has no bundle name")
		}
		result = append(result, rb)
	}
	return result, nil
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
