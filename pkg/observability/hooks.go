// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about Composer invocations, autoload rewrites, and symbol
// registry operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetComposerHooks(&myComposerHooks{})
//	    observability.SetAutoloadHooks(&myAutoloadHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Composer().OnCommandStart(ctx, bin, args)
//	// ... run the process ...
//	observability.Composer().OnCommandComplete(ctx, bin, args, exitCode, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Composer Hooks
// =============================================================================

// ComposerHooks receives events from Composer process invocations.
type ComposerHooks interface {
	// Command events
	OnCommandStart(ctx context.Context, bin string, args []string)
	OnCommandComplete(ctx context.Context, bin string, args []string, exitCode int, duration time.Duration, err error)

	// OnVersionDetected records a successfully parsed Composer version.
	OnVersionDetected(ctx context.Context, version string)
}

// =============================================================================
// Autoload Hooks
// =============================================================================

// AutoloadHooks receives events from autoload entrypoint rewriting.
type AutoloadHooks interface {
	// Rewrite events
	OnRewriteStart(ctx context.Context, path string)
	OnRewriteComplete(ctx context.Context, path string, loaderMatched bool, size int, duration time.Duration, err error)
}

// =============================================================================
// Registry Hooks
// =============================================================================

// RegistryHooks receives events from symbol registry operations.
type RegistryHooks interface {
	// OnRegistryLoad records a registry read.
	OnRegistryLoad(ctx context.Context, path string, symbolCount int, err error)

	// OnRegistryStore records a registry write.
	OnRegistryStore(ctx context.Context, path string, symbolCount int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopComposerHooks is a no-op implementation of ComposerHooks.
type NoopComposerHooks struct{}

func (NoopComposerHooks) OnCommandStart(context.Context, string, []string) {}
func (NoopComposerHooks) OnCommandComplete(context.Context, string, []string, int, time.Duration, error) {
}
func (NoopComposerHooks) OnVersionDetected(context.Context, string) {}

// NoopAutoloadHooks is a no-op implementation of AutoloadHooks.
type NoopAutoloadHooks struct{}

func (NoopAutoloadHooks) OnRewriteStart(context.Context, string) {}
func (NoopAutoloadHooks) OnRewriteComplete(context.Context, string, bool, int, time.Duration, error) {
}

// NoopRegistryHooks is a no-op implementation of RegistryHooks.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnRegistryLoad(context.Context, string, int, error)  {}
func (NoopRegistryHooks) OnRegistryStore(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	composerHooks ComposerHooks = NoopComposerHooks{}
	autoloadHooks AutoloadHooks = NoopAutoloadHooks{}
	registryHooks RegistryHooks = NoopRegistryHooks{}
	hooksMu       sync.RWMutex
)

// SetComposerHooks registers custom Composer hooks.
// This should be called once at application startup before any process runs.
func SetComposerHooks(h ComposerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		composerHooks = h
	}
}

// SetAutoloadHooks registers custom autoload hooks.
// This should be called once at application startup before any rewrite runs.
func SetAutoloadHooks(h AutoloadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		autoloadHooks = h
	}
}

// SetRegistryHooks registers custom registry hooks.
// This should be called once at application startup before any registry access.
func SetRegistryHooks(h RegistryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		registryHooks = h
	}
}

// Composer returns the registered Composer hooks.
func Composer() ComposerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return composerHooks
}

// Autoload returns the registered autoload hooks.
func Autoload() AutoloadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return autoloadHooks
}

// Registry returns the registered registry hooks.
func Registry() RegistryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	composerHooks = NoopComposerHooks{}
	autoloadHooks = NoopAutoloadHooks{}
	registryHooks = NoopRegistryHooks{}
}
