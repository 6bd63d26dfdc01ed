package metadata

import (
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

// DefaultPaths are the class_data.json locations checked when none are configured.
var DefaultPaths = []string{"class_data.json", "data/class_data.json"}

type implResolver struct {
	paths  []string
	logger logger.Logger
	now    func() time.Time
}

// Option configures a Resolver.
type Option func(*implResolver)

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(r *implResolver) {
		r.now = now
	}
}

// New creates a Resolver reading the given candidate files in order.
func New(paths []string, log logger.Logger, opts ...Option) Resolver {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	r := &implResolver{
		paths:  paths,
		logger: log,
		now:    time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}
