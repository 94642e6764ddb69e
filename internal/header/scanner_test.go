package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JackSullivan/osgiutils/internal/header"
)

func TestSplitClausesIgnoresCommasInQuotes(t *testing.T) {
	got := header.SplitClauses(`a;x="1,2",b;y=3`)
	want := []string{`a;x="1,2"`, `b;y=3`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitClauses() diff (-want +got):\n%s", diff)
	}
}

func TestSplitTokens(t *testing.T) {
	got := header.SplitTokens(`a;resolution:=optional;version="1.0"`)
	want := []string{"a", "resolution:=optional", `version="1.0"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitTokens() diff (-want +got):\n%s", diff)
	}
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want header.Token
	}{
		{desc: "bare name", in: "com.example", want: header.Token{Name: "com.example"}},
		{desc: "parameter", in: "version=1.0", want: header.Token{Name: "version", Value: "1.0", HasValue: true}},
		{desc: "quoted parameter", in: `version="1.0"`, want: header.Token{Name: "version", Value: "1.0", HasValue: true}},
		{desc: "directive", in: "resolution:=optional", want: header.Token{Name: "resolution", Value: "optional", HasValue: true, Directive: true}},
		{desc: "quoted directive with comma", in: `uses:="a,b,c"`, want: header.Token{Name: "uses", Value: "a,b,c", HasValue: true, Directive: true}},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, header.ParseToken(tc.in)); diff != "" {
				t.Errorf("ParseToken(%q) diff (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestIsName(t *testing.T) {
	if !header.ParseToken("bare").IsName() {
		t.Error("bare token should report IsName() true")
	}
	if header.ParseToken("a=b").IsName() {
		t.Error("parameter token should report IsName() false")
	}
}
