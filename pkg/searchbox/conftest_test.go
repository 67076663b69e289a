package searchbox

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeTimers captures scheduled callbacks so tests fire them explicitly.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (ft *fakeTimers) afterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

// fireAll runs every pending timer with the given duration.
func (ft *fakeTimers) fireAll(d time.Duration) int {
	ft.mu.Lock()
	var due []*fakeTimer
	for _, t := range ft.timers {
		if !t.stopped && !t.fired && t.d == d {
			t.fired = true
			due = append(due, t)
		}
	}
	ft.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

type call struct {
	q       Query
	ctx     context.Context
	release chan result
}

type result struct {
	resp *Response
	err  error
}

// blockingSearcher holds every request until the test releases it.
// ignoreCancel makes a request finish with its released result even
// after its context is canceled.
type blockingSearcher struct {
	ignoreCancel bool
	calls        chan *call
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{calls: make(chan *call, 16)}
}

func (s *blockingSearcher) Search(ctx context.Context, q Query) (*Response, error) {
	c := &call{q: q, ctx: ctx, release: make(chan result, 1)}
	s.calls <- c
	if s.ignoreCancel {
		r := <-c.release
		return r.resp, r.err
	}
	select {
	case r := <-c.release:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *blockingSearcher) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a search call")
		return nil
	}
}

func (s *blockingSearcher) none(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected search call for %q", c.q.Text)
	default:
	}
}

// recorder collects snapshots published by OnChange.
type recorder struct {
	ch chan Snapshot
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Snapshot, 64)}
}

func (r *recorder) fn(s Snapshot) { r.ch <- s }

// waitFor drains snapshots until one matches.
func (r *recorder) waitFor(t *testing.T, match func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-r.ch:
			if match(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
			return Snapshot{}
		}
	}
}

func inState(st State) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.State == st }
}

func productsResponse(titles ...string) *Response {
	r := &Response{Settings: Display{ResultsPadding: DefaultResultsPadding}, Total: len(titles)}
	for i, title := range titles {
		r.Products = append(r.Products, Product{ID: int64(i + 1), Title: title, URL: "/p"})
	}
	return r
}

type testBox struct {
	box      *Box
	timers   *fakeTimers
	searcher *blockingSearcher
	rec      *recorder
}

func newTestBox(t *testing.T, cfg Config) *testBox {
	t.Helper()
	tb := &testBox{timers: &fakeTimers{}, searcher: newBlockingSearcher(), rec: newRecorder()}
	tb.box = NewBox(tb.searcher, cfg, OnChange(tb.rec.fn), WithAfterFunc(tb.timers.afterFunc))
	t.Cleanup(func() {
		go func() {
			for c := range tb.searcher.calls {
				c.release <- result{err: context.Canceled}
			}
		}()
		tb.box.Close()
	})
	return tb
}
