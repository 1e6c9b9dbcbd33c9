package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryDeduperAdd(t *testing.T) {
	d := NewMemoryDeduper(time.Minute)
	ctx := context.Background()

	if added, _ := d.Add(ctx, "k1"); !added {
		t.Fatalf("expected first add to record the key")
	}
	if added, _ := d.Add(ctx, "k1"); added {
		t.Fatalf("expected duplicate on second add")
	}
	if err := d.Remove(ctx, "k1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if added, _ := d.Add(ctx, "k1"); !added {
		t.Fatalf("expected key to be accepted again after remove")
	}
}

func TestMemoryDeduperExpiry(t *testing.T) {
	d := NewMemoryDeduper(time.Minute)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	d.Add(ctx, "k1")
	now = now.Add(time.Minute)
	if added, _ := d.Add(ctx, "k1"); !added {
		t.Fatalf("expected expired key to be accepted")
	}
	if len(d.keys) != 1 {
		t.Fatalf("expected expired keys to be swept, got %d", len(d.keys))
	}
}

func TestPostCommandsSkipsReplayedKeys(t *testing.T) {
	e, st, _ := newTestServer(t)
	body := `[{"id":"create-1","type":"create","data":{"title":"A"}}]`

	first := do(e, http.MethodPost, "/api/commands", body)
	if first.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", first.Code)
	}
	second := do(e, http.MethodPost, "/api/commands", body)
	if second.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", second.Code)
	}
	resp := decodeBody[postCommandResponse](t, second)
	if diff := cmp.Diff([]string{"create-1"}, resp.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
	if st.Len() != 1 {
		t.Fatalf("replayed create must not add a second task, got %d", st.Len())
	}
}

func TestRejectedCommandCanBeRetried(t *testing.T) {
	e, st, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/commands", `[{"id":"c1","type":"create","data":{"title":" "}}]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	rec = do(e, http.MethodPost, "/api/commands", `[{"id":"c1","type":"create","data":{"title":"fixed"}}]`)
	if rec.Code != http.StatusOK || st.Len() != 1 {
		t.Fatalf("expected retry to apply, got %d with %d tasks", rec.Code, st.Len())
	}
}
