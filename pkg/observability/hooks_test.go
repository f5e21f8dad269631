package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Composer hooks
	c := NoopComposerHooks{}
	c.OnCommandStart(ctx, "composer", []string{"--version"})
	c.OnCommandComplete(ctx, "composer", []string{"--version"}, 0, time.Second, nil)
	c.OnVersionDetected(ctx, "2.7.1")

	// Autoload hooks
	a := NoopAutoloadHooks{}
	a.OnRewriteStart(ctx, "vendor/autoload.php")
	a.OnRewriteComplete(ctx, "vendor/autoload.php", true, 1024, time.Second, nil)

	// Registry hooks
	r := NoopRegistryHooks{}
	r.OnRegistryLoad(ctx, "symbols.json", 42, nil)
	r.OnRegistryStore(ctx, "symbols.json", 42, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Composer().(NoopComposerHooks); !ok {
		t.Error("Composer() should return NoopComposerHooks by default")
	}
	if _, ok := Autoload().(NoopAutoloadHooks); !ok {
		t.Error("Autoload() should return NoopAutoloadHooks by default")
	}
	if _, ok := Registry().(NoopRegistryHooks); !ok {
		t.Error("Registry() should return NoopRegistryHooks by default")
	}

	// Set custom hooks
	customComposer := &testComposerHooks{}
	SetComposerHooks(customComposer)
	if Composer() != customComposer {
		t.Error("SetComposerHooks should set custom hooks")
	}

	customAutoload := &testAutoloadHooks{}
	SetAutoloadHooks(customAutoload)
	if Autoload() != customAutoload {
		t.Error("SetAutoloadHooks should set custom hooks")
	}

	customRegistry := &testRegistryHooks{}
	SetRegistryHooks(customRegistry)
	if Registry() != customRegistry {
		t.Error("SetRegistryHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Composer().(NoopComposerHooks); !ok {
		t.Error("Reset() should restore NoopComposerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testComposerHooks{}
	SetComposerHooks(custom)

	// Setting nil should be ignored
	SetComposerHooks(nil)

	if Composer() != custom {
		t.Error("SetComposerHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testComposerHooks struct{ NoopComposerHooks }
type testAutoloadHooks struct{ NoopAutoloadHooks }
type testRegistryHooks struct{ NoopRegistryHooks }
