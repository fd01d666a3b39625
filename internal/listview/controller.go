package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"hr-console/internal/notify"
	"hr-console/internal/shared/contextutil"
	"hr-console/internal/shared/debounce"

	"go.uber.org/zap"
)

type State string

const (
	StateLoading   State = "loading"
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

// Fetcher loads the collection matching filter. One call is one backend request.
type Fetcher[F any, T any] func(ctx context.Context, filter F) ([]T, error)

type Snapshot[F any, T any] struct {
	State  State  `json:"state"`
	Filter F      `json:"filter"`
	Rows   []T    `json:"rows"`
	Seq    uint64 `json:"seq"`
}

type Options[F any] struct {
	Name             string
	LoadErrorMessage string
	Debounce         time.Duration
	Notifier         notify.Notifier
	Logger           *zap.Logger
	// InitialFilter, when set, replaces the constructor's filter on first use, so values
	// such as "today" are taken when the page mounts rather than when the process starts.
	InitialFilter func() F
}

// Controller keeps one on-screen collection consistent with the active filter. Every fetch
// is tagged with a sequence number and only the latest one may touch the displayed rows.
type Controller[F any, T any] struct {
	fetch     Fetcher[F, T]
	initial   func() F
	notifier  notify.Notifier
	loadErr   string
	debouncer *debounce.Debouncer
	logger    *zap.Logger

	mu        sync.Mutex
	filter    F
	rows      []T
	state     State
	dataState State
	seq       uint64
	cancel    context.CancelFunc
	mounted   bool
	resolved  bool
	subs      map[int]chan Snapshot[F, T]
	nextSub   int
}

func New[F any, T any](initial F, fetch Fetcher[F, T], opts Options[F]) *Controller[F, T] {
	l := zap.L()
	if opts.Logger != nil {
		l = opts.Logger
	}
	name := opts.Name
	if name == "" {
		name = "list"
	}
	msg := opts.LoadErrorMessage
	if msg == "" {
		msg = "Failed to load data"
	}
	delay := opts.Debounce
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}

	return &Controller[F, T]{
		fetch:     fetch,
		initial:   opts.InitialFilter,
		notifier:  opts.Notifier,
		loadErr:   msg,
		debouncer: debounce.New(delay),
		logger:    l.Named(name),
		filter:    initial,
		state:     StateLoading,
		dataState: StateEmpty,
		subs:      make(map[int]chan Snapshot[F, T]),
	}
}

func (c *Controller[F, T]) Snapshot() Snapshot[F, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[F, T]) Filter() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Mount performs the first fetch once; later calls return the current snapshot.
func (c *Controller[F, T]) Mount(ctx context.Context) (Snapshot[F, T], error) {
	c.mu.Lock()
	mounted := c.mounted
	c.mu.Unlock()
	if mounted {
		return c.Snapshot(), nil
	}
	return c.Refetch(ctx)
}

// SetFilter replaces the filter and refetches right away, dropping any pending debounced
// fetch.
func (c *Controller[F, T]) SetFilter(ctx context.Context, f F) (Snapshot[F, T], error) {
	c.debouncer.Cancel()
	c.mu.Lock()
	c.filter = f
	c.resolved = true
	c.mu.Unlock()
	return c.Refetch(ctx)
}

// UpdateFilter applies fn to the current filter atomically, then refetches.
func (c *Controller[F, T]) UpdateFilter(ctx context.Context, fn func(F) F) (Snapshot[F, T], error) {
	c.debouncer.Cancel()
	c.mu.Lock()
	c.resolveLocked()
	c.filter = fn(c.filter)
	c.mu.Unlock()
	return c.Refetch(ctx)
}

// SetFilterDebounced records the filter immediately and fetches only after the quiet period.
func (c *Controller[F, T]) SetFilterDebounced(ctx context.Context, f F) Snapshot[F, T] {
	c.mu.Lock()
	c.filter = f
	c.resolved = true
	snap := c.snapshotLocked()
	c.mu.Unlock()

	detached := contextutil.Detach(ctx)
	c.debouncer.Trigger(func() {
		_, _ = c.Refetch(detached)
	})
	return snap
}

// Refetch loads the collection for the filter active right now.
func (c *Controller[F, T]) Refetch(ctx context.Context) (Snapshot[F, T], error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	c.resolveLocked()
	filter := c.filter
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mounted = true
	c.state = StateLoading
	c.publishLocked()
	c.mu.Unlock()

	rows, err := c.fetch(fetchCtx, filter)

	c.mu.Lock()

	if seq != c.seq {
		cancel()
		c.logger.Debug("discard stale response", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}
	cancel()
	c.cancel = nil

	if err != nil {
		c.state = c.dataState
		c.publishLocked()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return snap, err
		}
		c.logger.Warn("list fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		// notifier may hit Redis; never call it under c.mu
		if c.notifier != nil {
			c.notifier.Error(ctx, c.loadErr)
		}
		return snap, err
	}
	defer c.mu.Unlock()

	c.rows = rows
	if len(rows) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StatePopulated
	}
	c.dataState = c.state
	c.publishLocked()

	c.logger.Debug("list fetched", zap.Uint64("seq", seq), zap.Int("rows", len(rows)))
	return c.snapshotLocked(), nil
}

// Mutate runs a create or delete. On success it acknowledges with successMsg, runs the
// onSuccess hooks (closing modals) and refetches the current filtered view; the rows are
// never patched locally. The operation's error is returned untouched so callers can route
// field errors to their form.
func (c *Controller[F, T]) Mutate(ctx context.Context, op func(ctx context.Context) error, successMsg string, onSuccess ...func()) (Snapshot[F, T], error) {
	if err := op(ctx); err != nil {
		return c.Snapshot(), err
	}
	if c.notifier != nil && successMsg != "" {
		c.notifier.Success(ctx, successMsg)
	}
	for _, fn := range onSuccess {
		fn()
	}
	snap, _ := c.Refetch(ctx)
	return snap, nil
}

// Subscribe returns a channel that always holds the most recent snapshot. Call the returned
// func to unsubscribe.
func (c *Controller[F, T]) Subscribe() (<-chan Snapshot[F, T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Snapshot[F, T], 1)
	ch <- c.snapshotLocked()
	c.subs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Close drops the pending debounced fetch and cancels the in-flight one.
func (c *Controller[F, T]) Close() {
	c.debouncer.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	for id, sub := range c.subs {
		delete(c.subs, id)
		close(sub)
	}
}

func (c *Controller[F, T]) resolveLocked() {
	if !c.resolved && c.initial != nil {
		c.filter = c.initial()
	}
	c.resolved = true
}

func (c *Controller[F, T]) snapshotLocked() Snapshot[F, T] {
	return Snapshot[F, T]{
		State:  c.state,
		Filter: c.filter,
		Rows:   c.rows,
		Seq:    c.seq,
	}
}

func (c *Controller[F, T]) publishLocked() {
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
