package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/onnwee/chat-tally/command"
	"github.com/onnwee/chat-tally/db"
	"github.com/onnwee/chat-tally/notify"
	"github.com/onnwee/chat-tally/server"
	"github.com/onnwee/chat-tally/testutil"
)

func TestEventsRequiresBroadcaster(t *testing.T) {
	hub := notify.NewHub()
	srv := httptest.NewServer(server.NewMux(context.Background(), nil, hub, ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEventsStreamsMilestones(t *testing.T) {
	hub := notify.NewHub()
	srv := httptest.NewServer(server.NewMux(context.Background(), nil, hub, ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events?broadcaster=b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// Headers arrive only after the handler has subscribed.
	if err := hub.Milestone(context.Background(), command.MilestoneEvent{
		BroadcasterID: "b1", Metric: "deaths", Threshold: 10, Value: 11,
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	type result struct {
		line string
		err  error
	}
	lines := make(chan result, 1)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
				lines <- result{line: line}
				return
			}
		}
		lines <- result{err: scanner.Err()}
	}()

	select {
	case res := <-lines:
		if res.err != nil {
			t.Fatalf("read stream: %v", res.err)
		}
		var ev notify.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(res.line, "data: ")), &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Kind != "milestone" || ev.Milestone == nil || ev.Milestone.Threshold != 10 {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event within 5s")
	}
}

func TestCorrelationIDEchoed(t *testing.T) {
	hub := notify.NewHub()
	srv := httptest.NewServer(server.NewMux(context.Background(), nil, hub, ""))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/events", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Correlation-ID"); got != "corr-123" {
		t.Errorf("correlation id = %q, want echoed corr-123", got)
	}
}

func TestCountersEndpoint(t *testing.T) {
	database := testutil.SetupTestDB(t)
	const bid = "test_http_counters"
	t.Cleanup(func() {
		_, _ = database.Exec(`DELETE FROM counters WHERE broadcaster_id=$1`, bid)
	})

	store := &db.CounterStore{DB: database}
	seed := command.NewState(bid)
	seed.Deaths = 7
	if err := store.Save(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(server.NewMux(context.Background(), database, notify.NewHub(), ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/broadcasters/" + bid + "/counters")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		BroadcasterID string `json:"broadcaster_id"`
		Deaths        int    `json:"deaths"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.BroadcasterID != bid || body.Deaths != 7 {
		t.Errorf("body = %+v", body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	database := testutil.SetupTestDB(t)
	srv := httptest.NewServer(server.NewMux(context.Background(), database, notify.NewHub(), ""))
	defer srv.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestAdminResetEndpoint(t *testing.T) {
	database := testutil.SetupTestDB(t)
	const bid = "test_http_reset"
	t.Cleanup(func() {
		_, _ = database.Exec(`DELETE FROM counters WHERE broadcaster_id=$1`, bid)
	})

	store := &db.CounterStore{DB: database}
	seed := command.NewState(bid)
	seed.Deaths, seed.Bits = 5, 800
	if err := store.Save(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(server.NewMux(context.Background(), database, notify.NewHub(), "s3cret"))
	defer srv.Close()

	// Without the token the reset is rejected.
	resp, err := http.Post(srv.URL+"/admin/counters/reset?broadcaster="+bid, "", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/admin/counters/reset?broadcaster="+bid, nil)
	req.Header.Set("X-Admin-Token", "s3cret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	state, err := store.Get(context.Background(), bid)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.Deaths != 0 {
		t.Errorf("deaths = %d, want 0 after reset", state.Deaths)
	}
	if state.Bits != 800 {
		t.Errorf("bits = %d, reset must not touch bits", state.Bits)
	}
}
