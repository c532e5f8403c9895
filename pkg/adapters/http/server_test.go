package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/mealy/pkg/adapters/file"
	"github.com/aretw0/mealy/pkg/adapters/memory"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/observability"
	"github.com/aretw0/mealy/pkg/runner"
	"github.com/aretw0/mealy/pkg/tables"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	store := memory.NewStore()

	srv := httptest.NewServer(NewHandler(tables.Loader(),
		WithStore(store),
		WithGatherer(reg),
		WithLifecycleHooks(metrics.Hooks()),
		WithMaxLine(16),
	))
	t.Cleanup(srv.Close)
	return srv, store
}

func postRun(t *testing.T, url, input string) (*http.Response, runner.JSONResult) {
	t.Helper()
	body, _ := json.Marshal(RunRequest{Input: input})
	resp, err := http.Post(url, "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out runner.JSONResult
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnprocessableEntity {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHealthAndInfo(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Get(srv.URL + "/info")
	require.NoError(t, err)
	defer resp.Body.Close()
	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "mealy-http", info["app"])
	assert.Equal(t, true, info["store"])
}

func TestTables(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/tables")
	require.NoError(t, err)
	defer resp.Body.Close()
	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{tables.BinaryAdditionName, tables.GumMachineName}, names)

	resp, err = http.Get(srv.URL + "/tables/" + tables.GumMachineName)
	require.NoError(t, err)
	defer resp.Body.Close()
	var def domain.Definition
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&def))
	assert.Equal(t, domain.State("s0"), def.Initial)
	assert.Len(t, def.Transitions, 25)

	resp, err = http.Get(srv.URL + "/tables/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGraph(t *testing.T) {
	srv, _ := newTestServer(t)

	get := func(query string) (int, string) {
		resp, err := http.Get(srv.URL + "/tables/" + tables.BinaryAdditionName + "/graph" + query)
		require.NoError(t, err)
		defer resp.Body.Close()
		var sb strings.Builder
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			sb.WriteString(sc.Text() + "\n")
		}
		return resp.StatusCode, sb.String()
	}

	code, body := get("")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(body, "graph LR"))

	code, body = get("?format=dot&input=1100")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"s0" -> "s1" [color="red"`)

	code, _ = get("?format=svg")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAnalysis(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/tables/" + tables.BinaryAdditionName + "/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, true, got["complete"])
	assert.Equal(t, tables.BinaryAdditionName, got["table"])
}

func TestRunTable(t *testing.T) {
	srv, store := newTestServer(t)
	url := srv.URL + "/tables/" + tables.BinaryAdditionName + "/run"

	resp, res := postRun(t, url, "1100")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "01", res.Output)
	assert.Equal(t, []string{"s0 -> s1", "s1 -> s0"}, res.Trace)
	assert.NotEmpty(t, res.ID)

	rec, err := store.Load(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "1100", rec.Input)

	// Stuck run: 422 with the partial result.
	resp, res = postRun(t, url, "11x")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "0", res.Output)
	assert.Equal(t, domain.State("s1"), res.State)
	require.NotNil(t, res.Position)
	assert.Equal(t, 2, *res.Position)

	// Too long.
	resp, _ = postRun(t, url, strings.Repeat("00", 9))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	// Bad body.
	bad, err := http.Post(url, "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	// Unknown table.
	resp, _ = postRun(t, srv.URL+"/tables/nope/run", "00")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRuns(t *testing.T) {
	srv, _ := newTestServer(t)
	_, res := postRun(t, srv.URL+"/tables/"+tables.GumMachineName+"/run", "5w")

	resp, err := http.Get(srv.URL + "/runs/" + res.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rec domain.RunRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "nn", rec.Result.Output)
	assert.Equal(t, tables.GumMachineName, rec.Table)

	resp, err = http.Get(srv.URL + "/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	var ids []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ids))
	assert.Equal(t, []string{res.ID}, ids)

	resp, err = http.Get(srv.URL + "/runs/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRuns_NoStore(t *testing.T) {
	srv := httptest.NewServer(NewHandler(tables.Loader()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/runs/anything")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	postRun(t, srv.URL+"/tables/"+tables.BinaryAdditionName+"/run", "00")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var sb strings.Builder
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		sb.WriteString(sc.Text() + "\n")
	}
	assert.Contains(t, sb.String(), `mealy_runs_total{outcome="ok",table="binary-addition"} 1`)
}

func readEvent(t *testing.T, sc *bufio.Scanner) string {
	t.Helper()
	for sc.Scan() {
		if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
			return data
		}
	}
	t.Fatal("stream closed before an event arrived")
	return ""
}

func TestSubscribeEvents_Table(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?table="+tables.BinaryAdditionName, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	assert.Equal(t, "connected", readEvent(t, sc))

	postRun(t, srv.URL+"/tables/"+tables.BinaryAdditionName+"/run", "11")

	var got runner.JSONResult
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, sc)), &got))
	assert.Equal(t, "0", got.Output)
	assert.Equal(t, domain.State("s1"), got.Final)
}

func TestSubscribeEvents_Reload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.fsm"), []byte("s0, x > s0, y\n"), 0o644))
	loader, err := file.NewLoader(dir)
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(loader))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	assert.Equal(t, "connected", readEvent(t, sc))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.fsm"), []byte("s0, x > s0, z\n"), 0o644))
	assert.Equal(t, "reload", readEvent(t, sc))

	_, err = loader.GetTable("b")
	assert.NoError(t, err)
}

func TestSubscribeEvents_NotWatchable(t *testing.T) {
	srv := httptest.NewServer(NewHandler(memory.NewLoader()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
