// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about simulation runs and cache operations.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSimulationHooks(&myHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Simulation().OnGenerateStart(ctx, len(taxa))
//	// ... generate ...
//	observability.Simulation().OnGenerateComplete(ctx, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// SimulationHooks receives events from the simulation pipeline.
type SimulationHooks interface {
	// Generate events
	OnGenerateStart(ctx context.Context, taxonCount int)
	OnGenerateComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)

	// Summarize events
	OnSummarizeComplete(ctx context.Context, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// nopSimulationHooks is the default no-op implementation.
type nopSimulationHooks struct{}

func (nopSimulationHooks) OnGenerateStart(context.Context, int)                          {}
func (nopSimulationHooks) OnGenerateComplete(context.Context, int, time.Duration, error) {}
func (nopSimulationHooks) OnSummarizeComplete(context.Context, time.Duration, error)     {}
func (nopSimulationHooks) OnRenderStart(context.Context, []string)                       {}
func (nopSimulationHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
}

// nopCacheHooks is the default no-op implementation.
type nopCacheHooks struct{}

func (nopCacheHooks) OnCacheHit(context.Context, string)       {}
func (nopCacheHooks) OnCacheMiss(context.Context, string)      {}
func (nopCacheHooks) OnCacheSet(context.Context, string, int)  {}

var (
	mu              sync.RWMutex
	simulationHooks SimulationHooks = nopSimulationHooks{}
	cacheHooks      CacheHooks      = nopCacheHooks{}
)

// SetSimulationHooks registers the simulation hooks. Call at startup, before
// any pipeline runs; registration is not synchronized with in-flight runs.
func SetSimulationHooks(h SimulationHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		simulationHooks = nopSimulationHooks{}
		return
	}
	simulationHooks = h
}

// SetCacheHooks registers the cache hooks.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		cacheHooks = nopCacheHooks{}
		return
	}
	cacheHooks = h
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	mu.RLock()
	defer mu.RUnlock()
	return simulationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
