// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about orbit-closure explorations and tangent-space growth.
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
//	    observability.SetExplorationHooks(&myExplorationHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Exploration().OnDirectionStart(ctx, direction)
//	// ... decompose and update ...
//	observability.Exploration().OnDirectionComplete(ctx, direction, dim, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Exploration Hooks
// =============================================================================

// ExplorationHooks receives events from orbit-closure explorations.
type ExplorationHooks interface {
	// OnDirectionStart records that a flow decomposition in the given
	// direction (rendered as a string) is about to be computed.
	OnDirectionStart(ctx context.Context, direction string)

	// OnDirectionComplete records the result of one direction: the tangent
	// space dimension afterwards and the time spent.
	OnDirectionComplete(ctx context.Context, direction string, dimension int, duration time.Duration, err error)

	// OnSaturated records that the tangent space reached the ambient
	// dimension and exploration stopped early.
	OnSaturated(ctx context.Context, dimension int)
}

// =============================================================================
// Tangent Space Hooks
// =============================================================================

// TangentHooks receives events from the tangent-space accumulator.
type TangentHooks interface {
	// OnInsert records an insertion attempt: whether the candidate vector
	// increased the rank, and the rank afterwards.
	OnInsert(ctx context.Context, inserted bool, rank int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExplorationHooks is a no-op implementation of ExplorationHooks.
type NoopExplorationHooks struct{}

func (NoopExplorationHooks) OnDirectionStart(context.Context, string) {}
func (NoopExplorationHooks) OnDirectionComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopExplorationHooks) OnSaturated(context.Context, int) {}

// NoopTangentHooks is a no-op implementation of TangentHooks.
type NoopTangentHooks struct{}

func (NoopTangentHooks) OnInsert(context.Context, bool, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	explorationHooks ExplorationHooks = NoopExplorationHooks{}
	tangentHooks     TangentHooks     = NoopTangentHooks{}
	hooksMu          sync.RWMutex
)

// SetExplorationHooks registers custom exploration hooks.
// This should be called once at application startup before any exploration.
func SetExplorationHooks(h ExplorationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		explorationHooks = h
	}
}

// SetTangentHooks registers custom tangent-space hooks.
// This should be called once at application startup before any exploration.
func SetTangentHooks(h TangentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		tangentHooks = h
	}
}

// Exploration returns the registered exploration hooks.
func Exploration() ExplorationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return explorationHooks
}

// Tangent returns the registered tangent-space hooks.
func Tangent() TangentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return tangentHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	explorationHooks = NoopExplorationHooks{}
	tangentHooks = NoopTangentHooks{}
}
