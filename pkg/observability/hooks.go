// Package observability provides hooks for metrics, tracing, and logging.
//
// The engine and pipeline stay free of observability framework imports;
// consumers register hook implementations at startup and receive events
// about layout computation, routing, cache traffic, and HTTP requests.
// All hooks default to no-ops, so libraries can emit events
// unconditionally.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout pipeline.
type LayoutHooks interface {
	// OnLayoutStart fires before placement begins.
	OnLayoutStart(ctx context.Context, strategy string, nodeCount int)

	// OnLayoutComplete fires after placement, converged or not.
	OnLayoutComplete(ctx context.Context, strategy string, steps int, converged bool, duration time.Duration, err error)

	// OnRouteStart fires before connection routing.
	OnRouteStart(ctx context.Context, connectionCount int)

	// OnRouteComplete fires after routing; skipped counts connections
	// dropped for referencing unknown nodes.
	OnRouteComplete(ctx context.Context, routed, skipped int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the layout service.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int) {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, bool, time.Duration, error) {
}
func (NoopLayoutHooks) OnRouteStart(context.Context, int)                        {}
func (NoopLayoutHooks) OnRouteComplete(context.Context, int, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

var (
	mu          sync.RWMutex
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
)

// SetLayoutHooks registers the layout hook implementation. Pass nil to
// restore the no-op default.
func SetLayoutHooks(h LayoutHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopLayoutHooks{}
	}
	layoutHooks = h
}

// SetCacheHooks registers the cache hook implementation.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// SetHTTPHooks registers the HTTP hook implementation.
func SetHTTPHooks(h HTTPHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopHTTPHooks{}
	}
	httpHooks = h
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	mu.RLock()
	defer mu.RUnlock()
	return layoutHooks
}

// CacheEvents returns the registered cache hooks.
func CacheEvents() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	mu.RLock()
	defer mu.RUnlock()
	return httpHooks
}
