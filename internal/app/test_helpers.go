package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/filtergrid/internal/builtin"
	"github.com/specialistvlad/filtergrid/internal/hcl"
	"github.com/specialistvlad/filtergrid/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an app over the built-in manifests. It returns the
// app together with its output and log buffers.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	outBuffer, logBuffer := &SafeBuffer{}, &SafeBuffer{}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	testApp := NewApp(outBuffer, logBuffer, cfg, hcl.NewLoader(builtin.Manifests()), modules...)

	t.Cleanup(func() {
		if os.Getenv("FILTERGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
