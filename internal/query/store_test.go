package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchCachesWithinWindow(t *testing.T) {
	s := NewStore(time.Minute)
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", nil
	}
	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), s, Key{"things"}, fetch)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if v != "v1" {
			t.Fatalf("expected v1, got %s", v)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls)
	}
}

func TestFetchRefetchesAfterStaleTime(t *testing.T) {
	s := NewStore(time.Minute)
	current := time.Now()
	s.now = func() time.Time { return current }

	var calls int32
	fetch := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}
	if v, _ := Fetch(context.Background(), s, Key{"n"}, fetch); v != 1 {
		t.Fatalf("expected first fetch, got %d", v)
	}
	current = current.Add(30 * time.Second)
	if v, _ := Fetch(context.Background(), s, Key{"n"}, fetch); v != 1 {
		t.Fatalf("expected cached value within window, got %d", v)
	}
	current = current.Add(31 * time.Second)
	if v, _ := Fetch(context.Background(), s, Key{"n"}, fetch); v != 2 {
		t.Fatalf("expected refetch past window, got %d", v)
	}
}

func TestInvalidatePrefixCoversDetails(t *testing.T) {
	s := NewStore(time.Hour)
	var listCalls, detailCalls int32
	list := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&listCalls, 1)
		return "list", nil
	}
	detail := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&detailCalls, 1)
		return "detail", nil
	}
	ctx := context.Background()
	_, _ = Fetch(ctx, s, CollectionKey("events"), list)
	_, _ = Fetch(ctx, s, DetailKey("events", "e-1"), detail)
	_, _ = Fetch(ctx, s, CollectionKey("tags"), list)

	s.Invalidate(CollectionKey("events"))

	_, _ = Fetch(ctx, s, CollectionKey("events"), list)
	_, _ = Fetch(ctx, s, DetailKey("events", "e-1"), detail)
	_, _ = Fetch(ctx, s, CollectionKey("tags"), list)

	if listCalls != 3 {
		t.Fatalf("expected events list refetched and tags cached (3 list calls), got %d", listCalls)
	}
	if detailCalls != 2 {
		t.Fatalf("expected detail refetched, got %d calls", detailCalls)
	}
}

func TestConcurrentFetchesShareOneFlight(t *testing.T) {
	s := NewStore(time.Minute)
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return "shared", nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(context.Background(), s, Key{"shared"}, fetch)
			if err != nil || v != "shared" {
				t.Errorf("fetch: v=%v err=%v", v, err)
			}
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Fatalf("expected a single in-flight fetch, got %d", calls)
	}
}

func TestFetchErrorIsNotCached(t *testing.T) {
	s := NewStore(time.Minute)
	boom := errors.New("boom")
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", boom
		}
		return "ok", nil
	}
	if _, err := Fetch(context.Background(), s, Key{"flaky"}, fetch); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := Fetch(context.Background(), s, Key{"flaky"}, fetch)
	if err != nil || v != "ok" {
		t.Fatalf("expected retry to succeed, got v=%q err=%v", v, err)
	}
}

func TestKeyHasPrefix(t *testing.T) {
	k := DetailKey("events", "e-1")
	if !k.HasPrefix(CollectionKey("events")) {
		t.Fatalf("detail key should match its collection prefix")
	}
	if k.HasPrefix(CollectionKey("tags")) {
		t.Fatalf("unrelated prefix matched")
	}
	if CollectionKey("events").HasPrefix(k) {
		t.Fatalf("longer prefix matched shorter key")
	}
}
