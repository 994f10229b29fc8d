package repository

import (
	"time"

	"github.com/yukikurage/crm-api/internal/constants"
)

// Option configures a repository
type Option func(*options)

type options struct {
	now               func() time.Time
	leadIDMaxAttempts int
}

func newOptions(opts []Option) options {
	o := options{
		now:               time.Now,
		leadIDMaxAttempts: constants.DefaultLeadIDMaxAttempts,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the time source used for lead ID years and activity timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLeadIDMaxAttempts bounds how many times lead creation retries on an ID collision
func WithLeadIDMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.leadIDMaxAttempts = n
		}
	}
}
