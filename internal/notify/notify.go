package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"

	DefaultCapacity = 50
)

// Toast is a transient, dismissible notification shown to the admin.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is what pages use to acknowledge mutations and report failures.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Nop drops every toast.
type Nop struct{}

func (Nop) Success(context.Context, string) {}
func (Nop) Error(context.Context, string)   {}

type Store interface {
	Notifier
	Recent(ctx context.Context, limit int) ([]Toast, error)
	Dismiss(ctx context.Context, id string) error
}

type Option func(*options)

type options struct {
	capacity int
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		capacity: DefaultCapacity,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		logger:   zap.L(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	o.logger = o.logger.Named("notify")
	return o
}

func (o options) toast(level Level, msg string) Toast {
	return Toast{ID: o.newID(), Level: level, Message: msg, CreatedAt: o.now()}
}

// MemoryStore keeps the newest toasts in process, bounded by capacity.
type MemoryStore struct {
	opts options

	mu     sync.Mutex
	toasts []Toast // newest first
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: buildOptions(opts)}
}

func (s *MemoryStore) Success(ctx context.Context, message string) {
	s.push(s.opts.toast(LevelSuccess, message))
}

func (s *MemoryStore) Error(ctx context.Context, message string) {
	s.push(s.opts.toast(LevelError, message))
}

func (s *MemoryStore) push(t Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toasts = append([]Toast{t}, s.toasts...)
	if len(s.toasts) > s.opts.capacity {
		s.toasts = s.toasts[:s.opts.capacity]
	}
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Toast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.toasts) {
		limit = len(s.toasts)
	}
	out := make([]Toast, limit)
	copy(out, s.toasts[:limit])
	return out, nil
}

func (s *MemoryStore) Dismiss(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return nil
		}
	}
	return ErrToastNotFound
}
