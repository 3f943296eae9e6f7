package feed_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/homegym/internal/feed"
)

func TestHub_PublishDeliversToKeySubscribers(t *testing.T) {
	hub := feed.NewHub[string]()
	var alice, bob [][]string
	cancelAlice := hub.Subscribe(1, func(s []string) { alice = append(alice, s) })
	defer cancelAlice()
	cancelBob := hub.Subscribe(2, func(s []string) { bob = append(bob, s) })
	defer cancelBob()

	hub.Publish(1, []string{"a"})
	hub.Publish(1, []string{"a", "b"})
	hub.Publish(2, []string{"x"})

	if diff := cmp.Diff([][]string{{"a"}, {"a", "b"}}, alice); diff != "" {
		t.Errorf("alice snapshots mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"x"}}, bob); diff != "" {
		t.Errorf("bob snapshots mismatch (-want +got):\n%s", diff)
	}
}

func TestHub_Cancel(t *testing.T) {
	hub := feed.NewHub[int]()
	calls := 0
	cancel := hub.Subscribe(1, func([]int) { calls++ })
	hub.Publish(1, []int{1})
	cancel()
	cancel()
	hub.Publish(1, []int{1, 2})

	if calls != 1 {
		t.Errorf("got %d deliveries, want 1", calls)
	}
	if got := hub.Subscribers(1); got != 0 {
		t.Errorf("got %d subscribers after cancel, want 0", got)
	}
}

func TestHub_Refresh(t *testing.T) {
	hub := feed.NewHub[int]()
	loads := 0
	load := func() ([]int, error) {
		loads++
		return []int{loads}, nil
	}

	if err := hub.Refresh(1, load); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if loads != 0 {
		t.Errorf("loaded %d times without subscribers, want 0", loads)
	}

	var got []int
	cancel := hub.Subscribe(1, func(s []int) { got = s })
	defer cancel()
	if err := hub.Refresh(1, load); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	errLoad := errors.New("load failed")
	if err := hub.Refresh(1, func() ([]int, error) { return nil, errLoad }); !errors.Is(err, errLoad) {
		t.Errorf("Refresh() error = %v, want %v", err, errLoad)
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("failed refresh changed snapshot (-want +got):\n%s", diff)
	}
}

func TestHub_RefreshOrdering(t *testing.T) {
	hub := feed.NewHub[int]()
	var (
		mu   sync.Mutex
		last int
		seen []int
	)
	cancel := hub.Subscribe(1, func(s []int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s[0])
	})
	defer cancel()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_ = hub.Refresh(1, func() ([]int, error) {
				mu.Lock()
				defer mu.Unlock()
				last++
				return []int{last}, nil
			})
		})
	}
	wg.Wait()

	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("snapshot %d delivered after %d", seen[i], seen[i-1])
		}
	}
}

func TestLatest(t *testing.T) {
	fn, ch := feed.Latest[int]()
	fn([]int{1})
	fn([]int{1, 2})

	got := <-ch
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("latest mismatch (-want +got):\n%s", diff)
	}
	select {
	case s := <-ch:
		t.Errorf("unexpected extra snapshot %v", s)
	default:
	}
}
