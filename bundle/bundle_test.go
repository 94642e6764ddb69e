package bundle_test

import (
	"testing"

	"bitbucket.org/creachadair/stringset"

	"github.com/JackSullivan/osgiutils/bundle"
	"github.com/JackSullivan/osgiutils/version"
)

func TestImportedPackageString(t *testing.T) {
	tests := []struct {
		desc string
		in   bundle.ImportedPackage
		want string
	}{
		{
			desc: "bare name",
			in:   bundle.ImportedPackage{Name: "javax.ssl", Version: version.DefaultRange, BundleVersion: version.DefaultRange},
			want: "javax.ssl",
		},
		{
			desc: "optional with version",
			in: bundle.ImportedPackage{
				Name:          "com.example",
				Optional:      true,
				Version:       version.Exact(version.New(1, 0, 0, "")),
				BundleVersion: version.DefaultRange,
			},
			want: `com.example;resolution:=optional;version="1"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			if got := tc.in.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExportedPackageString(t *testing.T) {
	e := bundle.ExportedPackage{
		Name:    "com.example",
		Version: version.New(2, 0, 0, ""),
		Uses:    stringset.New("com.example.util"),
	}
	want := `com.example;version="2";uses:="com.example.util"`
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRequiredBundleString(t *testing.T) {
	r := bundle.RequiredBundle{
		SymbolicName: "com.example.bundle",
		Version:      version.Exact(version.New(1, 0, 0, "")),
		Optional:     true,
		Reexport:     true,
	}
	want := `com.example.bundle;version="1";resolution:=optional;visibility:=reexport`
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFragmentHostString(t *testing.T) {
	h := bundle.FragmentHost{
		SymbolicName: "host.bundle",
		Version:      version.DefaultRange,
		Extension:    bundle.ExtensionFramework,
	}
	want := "host.bundle;extension:=framework"
	if got := h.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBundleInfoEqual(t *testing.T) {
	a := &bundle.BundleInfo{SymbolicName: "a", Version: version.New(1, 0, 0, "")}
	b := &bundle.BundleInfo{SymbolicName: "a", Version: version.New(1, 0, 0, "")}
	if !a.Equal(b) {
		t.Error("structurally identical bundles should be Equal")
	}
	c := &bundle.BundleInfo{SymbolicName: "a", Version: version.New(2, 0, 0, "")}
	if a.Equal(c) {
		t.Error("bundles with different versions should not be Equal")
	}
}

func TestIsFragment(t *testing.T) {
	b := &bundle.BundleInfo{}
	if b.IsFragment() {
		t.Error("zero-value FragmentHost should not count as a fragment")
	}
	b.FragmentHost = bundle.FragmentHost{SymbolicName: "host"}
	if !b.IsFragment() {
		t.Error("non-empty FragmentHost should count as a fragment")
	}
}
