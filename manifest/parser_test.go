package manifest_test

import (
	"strings"
	"testing"

	"github.com/JackSullivan/osgiutils/manifest"
	"github.com/JackSullivan/osgiutils/version"
)

func TestParseHeadersMinimal(t *testing.T) {
	info, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "com.example.bundle",
	})
	if err != nil {
		t.Fatalf("ParseHeaders: %v", err)
	}
	if info.SymbolicName != "com.example.bundle" {
		t.Errorf("SymbolicName = %q, want %q", info.SymbolicName, "com.example.bundle")
	}
	if info.ManifestVersion != 1 {
		t.Errorf("ManifestVersion = %d, want 1", info.ManifestVersion)
	}
	if !info.Version.Equal(version.Default) {
		t.Errorf("Version = %v, want Default", info.Version)
	}
}

func TestParseHeadersMissingSymbolicNameIsInvalid(t *testing.T) {
	_, err := manifest.ParseHeaders(map[string]string{})
	if err == nil {
		t.Fatal("expected error for missing Bundle-SymbolicName")
	}
}

func TestParseHeadersImportPackage(t *testing.T) {
	info, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "a",
		"Import-Package":      `javax.ssl;resolution:=optional;version="[1.0,2.0)",javax.mail`,
	})
	if err != nil {
		t.Fatalf("ParseHeaders: %v", err)
	}
	if len(info.ImportedPackages) != 2 {
		t.Fatalf("len(ImportedPackages) = %d, want 2", len(info.ImportedPackages))
	}
	ssl := info.ImportedPackages[0]
	if ssl.Name != "javax.ssl" || !ssl.Optional {
		t.Errorf("javax.ssl import = %+v, want optional", ssl)
	}
	if !ssl.Version.Contains(version.New(1, 5, 0, "")) {
		t.Errorf("javax.ssl version range %s should contain 1.5.0", ssl.Version)
	}
	mail := info.ImportedPackages[1]
	if mail.Name != "javax.mail" || mail.Optional {
		t.Errorf("javax.mail import = %+v, want mandatory", mail)
	}
}

func TestParseHeadersDuplicateImportIsInvalid(t *testing.T) {
	_, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "a",
		"Import-Package":      "p,p",
	})
	if err == nil {
		t.Fatal("expected error for duplicate import")
	}
}

func TestParseHeadersExportPackage(t *testing.T) {
	info, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "a",
		"Export-Package":      `p;version="1.2.3";uses:="p.util,p.impl";mandatory:=attr1;attr1=value1,q`,
	})
	if err != nil {
		t.Fatalf("ParseHeaders: %v", err)
	}
	if len(info.ExportedPackages) != 2 {
		t.Fatalf("len(ExportedPackages) = %d, want 2", len(info.ExportedPackages))
	}
	p := info.ExportedPackages[0]
	if p.Name != "p" || !p.Version.Equal(version.New(1, 2, 3, "")) {
		t.Errorf("export p = %+v", p)
	}
	if !p.Uses.Contains("p.util") || !p.Uses.Contains("p.impl") {
		t.Errorf("export p uses = %v, want p.util and p.impl", p.Uses)
	}
	if !p.MandatoryAttributes.Contains("attr1") {
		t.Errorf("export p mandatory = %v, want attr1", p.MandatoryAttributes)
	}
	if p.MatchingAttributes["attr1"] != "value1" {
		t.Errorf("export p matching attrs = %v", p.MatchingAttributes)
	}
}

func TestParseHeadersFragmentHost(t *testing.T) {
	info, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "a.fragment",
		"Fragment-Host":       `host.bundle;bundle-version="[1.0,2.0)";extension:=framework`,
	})
	if err != nil {
		t.Fatalf("ParseHeaders: %v", err)
	}
	if !info.IsFragment() {
		t.Fatal("expected IsFragment() true")
	}
	if info.FragmentHost.SymbolicName != "host.bundle" {
		t.Errorf("host name = %q", info.FragmentHost.SymbolicName)
	}
}

func TestParseHeadersFragmentHostTwoNamesIsInvalid(t *testing.T) {
	_, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "a",
		"Fragment-Host":       "host1;host2",
	})
	if err == nil {
		t.Fatal("expected error for two host names in one Fragment-Host clause")
	}
}

func TestParseHeadersRequireBundle(t *testing.T) {
	info, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "a",
		"Require-Bundle":      `b;bundle-version="1.0.0";visibility:=reexport;resolution:=optional`,
	})
	if err != nil {
		t.Fatalf("ParseHeaders: %v", err)
	}
	if len(info.RequiredBundles) != 1 {
		t.Fatalf("len(RequiredBundles) = %d, want 1", len(info.RequiredBundles))
	}
	rb := info.RequiredBundles[0]
	if rb.SymbolicName != "b" || !rb.Reexport || !rb.Optional {
		t.Errorf("required bundle = %+v", rb)
	}
}

func TestParseHeadersRequireBundleTwoNamesIsInvalid(t *testing.T) {
	_, err := manifest.ParseHeaders(map[string]string{
		"Bundle-SymbolicName": "a",
		"Require-Bundle":      "b;c",
	})
	if err == nil {
		t.Fatal("expected error for two bundle names in one Require-Bundle clause")
	}
}

func TestParseManifestFromReader(t *testing.T) {
	raw := "Bundle-SymbolicName: com.example.bundle\r\nBundle-Version: 1.2.3\r\n"
	info, err := manifest.ParseManifest(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if info.SymbolicName != "com.example.bundle" {
		t.Errorf("SymbolicName = %q", info.SymbolicName)
	}
	if !info.Version.Equal(version.New(1, 2, 3, "")) {
		t.Errorf("Version = %v, want 1.2.3", info.Version)
	}
}
