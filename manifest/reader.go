package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strings"

	"github.com/JackSullivan/osgiutils/bundle"
)

// ParseManifest reads a raw MANIFEST.MF-formatted stream (colon-separated
// headers with space-prefixed continuation lines, as used inside JAR
// files) and parses it into a BundleInfo. This is a caller-side
// convenience built on top of ParseHeaders; it never touches a
// filesystem or archive itself, matching the parser's sole declared
// contract with its external collaborators (the caller supplies the
// manifest's textual representation).
//
// A MIME header block is conventionally terminated by a blank line, which
// many real-world MANIFEST.MF files omit at end of stream. That specific
// io.EOF is tolerated; headers parsed before it are still used.
func ParseManifest(r io.Reader) (*bundle.BundleInfo, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("manifest: failed to read manifest: %w", err)
	}
	// A JAR continuation line loses its single leading space and is appended
	// directly to the previous line; textproto alone would insert a space.
	text := strings.NewReplacer("\r\n ", "", "\n ", "").Replace(string(raw))
	rd := textproto.NewReader(bufio.NewReader(strings.NewReader(text)))
	h, err := rd.ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("manifest: failed to read MIME header: %w", err)
	}
	headers := make(map[string]string, len(h))
	for k := range h {
		headers[k] = h.Get(k)
	}
	// ReadMIMEHeader canonicalizes keys (Bundle-SymbolicName becomes
	// Bundle-Symbolicname); restore the exact names ParseHeaders looks up.
	for _, name := range []string{headerManifestVersion, headerSymbolicName, headerVersion, headerName, headerDescription,
		headerFragmentHost, headerImportPackage, headerExportPackage, headerRequireBundle} {
		if c := textproto.CanonicalMIMEHeaderKey(name); c != name {
			if v, ok := headers[c]; ok {
				delete(headers, c)
				headers[name] = v
			}
		}
	}
	return ParseHeaders(headers)
}
