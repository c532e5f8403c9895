package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/mealy/internal/testutils"
	"github.com/aretw0/mealy/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, closeStore, err := NewAPIHandler(ctx, ServeOptions{Stdout: io.Discard})
	require.NoError(t, err)
	defer closeStore()

	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/tables/gum-machine/run", "application/json", strings.NewReader(`{"input":"25w"}`))
	require.NoError(t, err)
	var res runner.JSONResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5p", res.Output)

	// Runs are kept in memory by default.
	resp, err = http.Get(ts.URL + "/runs/" + res.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `mealy_runs_total{outcome="ok",table="gum-machine"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewAPIHandler_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, _, err := NewAPIHandler(ctx, ServeOptions{Watch: true, Stdout: io.Discard})
	assert.ErrorContains(t, err, "--watch requires --dir")

	dir := testutils.SetupTableDir(t, map[string]string{"parity.fsm": parity})

	var out syncBuffer
	handler, closeStore, err := NewAPIHandler(ctx, ServeOptions{Dir: dir, Watch: true, Stdout: &out})
	require.NoError(t, err)
	defer closeStore()

	testutils.WriteFile(t, dir, "flip.fsm", "a, 1 > b, x\nb, 1 > a, y\n")

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tables/flip", nil))
		return rec.Code == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Tables reloaded")
	}, 3*time.Second, 50*time.Millisecond)
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ServeOptions{Port: "0", Stdout: &out})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Server stopped gracefully")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
