package resource

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/shared"
)

// Source supplies the hooks a [Coordinator] drives.
//
// K is the key, L the local record, R the remote record and U the result.
// The bool returned by the conversion hooks reports whether a value is present.
type Source[K, L, R, U any] interface {
	LoadLocal(ctx context.Context, key K) (L, error)
	ConvertLocal(key K, local L) (U, bool, error)
	ShouldFetch(key K, result U, present bool) bool
	FetchRemote(ctx context.Context, key K) (R, error)
	ConvertToLocal(key K, remote R) (L, error)
	SaveLocal(ctx context.Context, key K, local L) error
	ConvertRemote(key K, remote R) (U, bool, error)
}

// Option configures a [Coordinator].
type Option func(*options)

type options struct {
	emitLoading bool
	logger      *log.Logger
}

// WithoutLoading suppresses the initial [StatusLoading] emission.
func WithoutLoading() Option {
	return func(o *options) { o.emitLoading = false }
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Coordinator resolves keys through a [Source]. It holds no per-key state and is safe for concurrent use.
type Coordinator[K, L, R, U any] struct {
	source      Source[K, L, R, U]
	emitLoading bool
	logger      *log.Logger
}

// NewCoordinator creates a [Coordinator] for source.
func NewCoordinator[K, L, R, U any](source Source[K, L, R, U], opts ...Option) *Coordinator[K, L, R, U] {
	o := options{emitLoading: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = shared.NewLogger(nil)
	}

	return &Coordinator[K, L, R, U]{
		source:      source,
		emitLoading: o.emitLoading,
		logger:      o.logger,
	}
}

// Resolve starts a resolution for key and returns its emissions.
//
// The channel yields an optional [StatusLoading] followed by exactly one terminal resource, then closes.
func (c *Coordinator[K, L, R, U]) Resolve(ctx context.Context, key K) <-chan Resource[U] {
	out := make(chan Resource[U], 2)

	go func() {
		defer close(out)
		if c.emitLoading {
			out <- Loading[U]()
		}
		out <- c.resolve(ctx, key)
	}()

	return out
}

func (c *Coordinator[K, L, R, U]) resolve(ctx context.Context, key K) Resource[U] {
	local, err := c.source.LoadLocal(ctx, key)
	if err != nil {
		return Failure[U](fmt.Errorf("%w: %w", shared.ErrStorageUnavailable, err))
	}

	result, present, err := c.source.ConvertLocal(key, local)
	if err != nil {
		return Failure[U](fmt.Errorf("%w: local record for %v: %w", shared.ErrConversion, key, err))
	}

	if !c.source.ShouldFetch(key, result, present) {
		return Success(result)
	}

	remote, err := c.source.FetchRemote(ctx, key)
	if err != nil {
		if present {
			c.logger.Warn("remote fetch failed, using local value", "key", key, "error", err)
			return Success(result)
		}
		return Failure[U](fmt.Errorf("%w: %w", shared.ErrNetwork, err))
	}

	record, err := c.source.ConvertToLocal(key, remote)
	if err != nil {
		return Failure[U](fmt.Errorf("%w: remote record for %v: %w", shared.ErrConversion, key, err))
	}

	if err := c.source.SaveLocal(ctx, key, record); err != nil {
		c.logger.Error("failed to persist remote record", "key", key, "error", err)
	}

	converted, _, err := c.source.ConvertRemote(key, remote)
	if err != nil {
		return Failure[U](fmt.Errorf("%w: remote record for %v: %w", shared.ErrConversion, key, err))
	}

	return Success(converted)
}
