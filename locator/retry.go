package locator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// RetryLocator retries transient lookup failures of another locator.
// ErrNotFound is returned at once: the source answered.
type RetryLocator struct {
	next       EvidenceLocator
	newBackOff func() backoff.BackOff
}

var _ EvidenceLocator = (*RetryLocator)(nil)

// Retry wraps l with exponential backoff bounded by maxElapsed.
func Retry(l EvidenceLocator, maxElapsed time.Duration) *RetryLocator {
	return RetryWith(l, func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 200 * time.Millisecond
		b.MaxElapsedTime = maxElapsed
		return b
	})
}

// RetryWith wraps l with a custom backoff policy. newBackOff is called once per lookup.
func RetryWith(l EvidenceLocator, newBackOff func() backoff.BackOff) *RetryLocator {
	return &RetryLocator{next: l, newBackOff: newBackOff}
}

// LocateEvidence implements EvidenceLocator.
func (r *RetryLocator) LocateEvidence(ctx context.Context, q Query) ([]Evidence, error) {
	op := func() ([]Evidence, error) {
		found, err := r.next.LocateEvidence(ctx, q)
		if err == nil {
			return found, nil
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	return backoff.RetryWithData(op, backoff.WithContext(r.newBackOff(), ctx))
}
