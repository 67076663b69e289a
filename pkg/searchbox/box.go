package searchbox

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// State is the lifecycle state of a Box.
type State int

// Box states.
const (
	StateIdle State = iota
	StateDebouncing
	StateLoading
	StateRendered
	StateEmpty
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateEmpty:
		return "empty"
	case StateErrored:
		return "errored"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Defaults used when a preset carries no value.
const (
	DefaultMinChars = 2
	DefaultDelay    = 200 * time.Millisecond
	// BlurGrace is how long results stay open after focus leaves the box,
	// so a click on a result still lands.
	BlurGrace = 200 * time.Millisecond
)

// Config is the per-box configuration.
type Config struct {
	PresetID  int64
	MinChars  int
	Delay     time.Duration
	Overrides map[string]string
	Messages  Messages
}

// ConfigFromPreset builds a Config from the data attributes a search box
// was rendered with. min_chars and delay tune the box; every other scalar
// is forwarded to the server as an override.
func ConfigFromPreset(presetID int64, data map[string]any) Config {
	cfg := Config{
		PresetID:  presetID,
		MinChars:  between(Int(data["min_chars"], DefaultMinChars), 1, 5),
		Delay:     time.Duration(between(Int(data["delay"], int(DefaultDelay/time.Millisecond)), 0, 2000)) * time.Millisecond,
		Overrides: make(map[string]string),
		Messages:  DefaultMessages,
	}
	for k, v := range data {
		switch k {
		case "min_chars", "delay", "preset_id", "s":
			continue
		}
		if s, ok := scalar(v); ok {
			cfg.Overrides[k] = s
		}
	}
	return cfg
}

func between(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

// Snapshot is a point-in-time view of a Box.
type Snapshot struct {
	State  State
	Query  string
	Open   bool
	Markup string
	Total  int
	Err    error
}

// Timer is the part of *time.Timer a Box needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// BoxOption configures a Box.
type BoxOption func(*Box)

// OnChange registers a callback invoked after every visible change.
// It runs outside the box lock and may call Snapshot.
func OnChange(fn func(Snapshot)) BoxOption {
	return func(b *Box) { b.onChange = fn }
}

// WithAfterFunc replaces the timer source.
func WithAfterFunc(f AfterFunc) BoxOption {
	return func(b *Box) { b.after = f }
}

// Box is one search input with its results panel. At most one request is
// in flight per box; a newer keystroke aborts the older request and only
// the latest request may change what is shown.
type Box struct {
	searcher Searcher
	cfg      Config
	onChange func(Snapshot)
	after    AfterFunc

	mu       sync.Mutex
	state    State
	query    string
	open     bool
	markup   string
	total    int
	err      error
	rendered string // query the current markup belongs to
	focused  bool
	closed   bool

	seq      uint64
	debounce Timer
	blur     Timer
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// NewBox creates a box backed by searcher.
func NewBox(searcher Searcher, cfg Config, opts ...BoxOption) *Box {
	if cfg.MinChars <= 0 {
		cfg.MinChars = DefaultMinChars
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.Messages == (Messages{}) {
		cfg.Messages = DefaultMessages
	}
	b := &Box{searcher: searcher, cfg: cfg, after: realAfterFunc, total: -1}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Input handles a change of the input text.
func (b *Box) Input(text string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	text = strings.TrimSpace(text)
	// A failed request is retried on any keystroke, even one that
	// leaves the trimmed text unchanged.
	if text == b.query && b.state != StateIdle && b.state != StateErrored {
		b.mu.Unlock()
		return
	}
	b.query = text
	b.abortLocked()

	if utf8.RuneCountInString(text) < b.cfg.MinChars {
		b.resetLocked()
		b.notifyUnlock()
		return
	}

	b.state = StateDebouncing
	seq := b.seq
	b.debounce = b.after(b.cfg.Delay, func() { b.fire(seq) })
	b.notifyUnlock()
}

// Focus handles the input gaining focus. Cached results for the current
// text reopen without a request; after a failed request, or with no
// results yet, a search starts immediately.
func (b *Box) Focus() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.focused = true
	if b.blur != nil {
		b.blur.Stop()
		b.blur = nil
	}

	valid := utf8.RuneCountInString(b.query) >= b.cfg.MinChars
	switch {
	case b.state == StateErrored && valid:
		b.abortLocked()
		seq := b.seq
		b.mu.Unlock()
		b.fire(seq)
	case b.markup != "" && b.rendered == b.query:
		if b.open {
			b.mu.Unlock()
			return
		}
		b.open = true
		b.notifyUnlock()
	case b.state == StateIdle && valid:
		b.abortLocked()
		seq := b.seq
		b.mu.Unlock()
		b.fire(seq)
	default:
		b.mu.Unlock()
	}
}

// Blur handles the input losing focus. Results soft-close after BlurGrace
// unless focus returns first.
func (b *Box) Blur() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.focused = false
	if b.blur != nil {
		b.blur.Stop()
	}
	b.blur = b.after(BlurGrace, func() {
		b.mu.Lock()
		if b.focused || b.closed {
			b.mu.Unlock()
			return
		}
		b.blur = nil
		b.softCloseLocked()
	})
}

// SoftClose hides the results panel and keeps them for a later Focus.
func (b *Box) SoftClose() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.softCloseLocked()
}

func (b *Box) softCloseLocked() {
	if !b.open {
		b.mu.Unlock()
		return
	}
	b.open = false
	b.notifyUnlock()
}

// Clear empties the input and drops cached results.
func (b *Box) Clear() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.query = ""
	b.abortLocked()
	b.resetLocked()
	b.notifyUnlock()
}

// Close stops timers, aborts the in-flight request and waits for it to
// return. The box ignores every call afterwards.
func (b *Box) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.abortLocked()
	if b.blur != nil {
		b.blur.Stop()
		b.blur = nil
	}
	b.mu.Unlock()
	b.inflight.Wait()
}

// Snapshot returns the current view.
func (b *Box) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Box) snapshotLocked() Snapshot {
	return Snapshot{
		State:  b.state,
		Query:  b.query,
		Open:   b.open,
		Markup: b.markup,
		Total:  b.total,
		Err:    b.err,
	}
}

// abortLocked invalidates pending work: the debounce timer is stopped,
// the in-flight request is canceled and its answer will be discarded.
func (b *Box) abortLocked() {
	b.seq++
	if b.debounce != nil {
		b.debounce.Stop()
		b.debounce = nil
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *Box) resetLocked() {
	b.state = StateIdle
	b.open = false
	b.markup = ""
	b.rendered = ""
	b.total = -1
	b.err = nil
}

func (b *Box) notifyUnlock() {
	snap := b.snapshotLocked()
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (b *Box) fire(seq uint64) {
	b.mu.Lock()
	if b.closed || seq != b.seq {
		b.mu.Unlock()
		return
	}
	b.debounce = nil
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.state = StateLoading
	q := Query{Text: b.query, PresetID: b.cfg.PresetID, Overrides: b.cfg.Overrides}
	b.inflight.Add(1)
	b.notifyUnlock()

	go func() {
		defer b.inflight.Done()
		defer cancel()
		resp, err := b.searcher.Search(ctx, q)
		b.finish(seq, q.Text, resp, err)
	}()
}

func (b *Box) finish(seq uint64, query string, resp *Response, err error) {
	b.mu.Lock()
	if b.closed || seq != b.seq || IsAbort(err) {
		b.mu.Unlock()
		return
	}
	b.cancel = nil
	if err == nil && resp == nil {
		resp = &Response{Total: -1}
	}

	switch {
	case errors.Is(err, ErrQueryTooShort):
		// The server's minimum is stricter than ours; show it as no results.
		b.state = StateEmpty
		b.err = nil
		b.markup = RenderMessage("nivo-search-no-results-message", b.cfg.Messages.NoResults)
		b.rendered = query
		b.total = 0
		b.open = true
	case errors.Is(err, ErrSearchDisabled):
		b.resetLocked()
		b.err = err
	case err != nil:
		b.state = StateErrored
		b.err = err
		b.markup = RenderMessage("nivo-search-error-message", b.cfg.Messages.Error)
		b.rendered = query
		b.total = -1
		b.open = true
	default:
		markup, renderErr := Render(resp, query, b.cfg.Messages)
		if renderErr != nil {
			b.state = StateErrored
			b.err = fmt.Errorf("searchbox: render: %w", renderErr)
			b.markup = RenderMessage("nivo-search-error-message", b.cfg.Messages.Error)
		} else {
			b.state = StateRendered
			if resp.Empty() {
				b.state = StateEmpty
			}
			b.err = nil
			b.markup = markup
		}
		b.rendered = query
		b.total = resp.Total
		b.open = true
	}
	b.notifyUnlock()
}
