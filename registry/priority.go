package registry

import (
	"sort"

	"github.com/JackSullivan/osgiutils/bundle"
)

// candidate is the priority-comparable projection of a registered bundle:
// every lookup sorts a slice of these and then discards the bookkeeping.
type candidate struct {
	info     *bundle.BundleInfo
	id       int
	resolved bool
}

func candidateOf(e *entry) candidate {
	return candidate{info: e.info, id: e.id, resolved: e.resolved}
}

// higherPriority reports whether a ranks above b in the registry's total
// order: resolved before unresolved, higher version before lower, lower ID
// before higher.
func higherPriority(a, b candidate) bool {
	if a.resolved != b.resolved {
		return a.resolved
	}
	if c := a.info.Version.Compare(b.info.Version); c != 0 {
		return c > 0
	}
	return a.id < b.id
}

func sortByPriority(cands []candidate) []candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		return higherPriority(cands[i], cands[j])
	})
	return cands
}

func toInfos(cands []candidate) []*bundle.BundleInfo {
	if len(cands) == 0 {
		return nil
	}
	out := make([]*bundle.BundleInfo, len(cands))
	for i, c := range cands {
		out[i] = c.info
	}
	return out
}

func head(bundles []*bundle.BundleInfo) (*bundle.BundleInfo, bool) {
	if len(bundles) == 0 {
		return nil, false
	}
	return bundles[0], true
}
