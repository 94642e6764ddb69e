package registry

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JackSullivan/osgiutils/bundle"
	"github.com/JackSullivan/osgiutils/log"
	"github.com/JackSullivan/osgiutils/version"
)

// Concurrent wraps a Registry in a single coarse mutex so multiple
// goroutines can share it, per the concurrency model's contract that a
// Registry itself has no internal synchronization and a caller needing
// parallel access must supply a single exclusive critical section.
type Concurrent struct {
	mu    sync.Mutex
	inner *Registry
}

// NewConcurrent wraps r. r must not be used directly afterward.
func NewConcurrent(r *Registry) *Concurrent {
	return &Concurrent{inner: r}
}

// Add is Registry.Add under the wrapper's mutex.
func (c *Concurrent) Add(info *bundle.BundleInfo) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Add(info)
}

// AddAll adds every bundle in infos. It first formats each bundle's debug
// description concurrently via errgroup, then serializes the actual
// inserts under the wrapper's single mutex to preserve ID monotonicity and
// index ordering.
func (c *Concurrent) AddAll(ctx context.Context, infos []*bundle.BundleInfo) error {
	descriptions := make([]string, len(infos))
	g, _ := errgroup.WithContext(ctx)
	for i := range infos {
		i := i
		g.Go(func() error {
			descriptions[i] = log.BundleRef(infos[i].SymbolicName, infos[i].Version)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, d := range descriptions {
		log.Debugf("registry: preparing to add %s", d)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return addAll(infos, c.inner.Add)
}

// All is Registry.All under the wrapper's mutex.
func (c *Concurrent) All() []*bundle.BundleInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.All()
}

// ID is Registry.ID under the wrapper's mutex.
func (c *Concurrent) ID(b *bundle.BundleInfo) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.ID(b)
}

// IsResolved is Registry.IsResolved under the wrapper's mutex.
func (c *Concurrent) IsResolved(b *bundle.BundleInfo) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.IsResolved(b)
}

// MarkResolved is Registry.MarkResolved under the wrapper's mutex.
func (c *Concurrent) MarkResolved(b *bundle.BundleInfo) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.MarkResolved(b)
}

// FindBundles is Registry.FindBundles under the wrapper's mutex.
func (c *Concurrent) FindBundles(name string, rng version.Range) []*bundle.BundleInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.FindBundles(name, rng)
}

// FindBundlesForRequiredBundle is Registry.FindBundlesForRequiredBundle
// under the wrapper's mutex.
func (c *Concurrent) FindBundlesForRequiredBundle(rb bundle.RequiredBundle) []*bundle.BundleInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.FindBundlesForRequiredBundle(rb)
}

// FindBundlesForFragmentHost is Registry.FindBundlesForFragmentHost under
// the wrapper's mutex.
func (c *Concurrent) FindBundlesForFragmentHost(fh bundle.FragmentHost) []*bundle.BundleInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.FindBundlesForFragmentHost(fh)
}

// FindBundlesForImportedPackage is Registry.FindBundlesForImportedPackage
// under the wrapper's mutex.
func (c *Concurrent) FindBundlesForImportedPackage(ip bundle.ImportedPackage) []*bundle.BundleInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.FindBundlesForImportedPackage(ip)
}

// FindFragments is Registry.FindFragments under the wrapper's mutex.
func (c *Concurrent) FindFragments(b *bundle.BundleInfo) []*bundle.BundleInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.FindFragments(b)
}
