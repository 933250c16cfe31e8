// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
	"github.com/taskdesk/taskdesk/utils"
)

// ID generation error constants
var (
	ErrInvalidPrefix    = errors.New("invalid identifier prefix")
	ErrPrefixExhausted  = errors.New("identifier capacity exhausted for prefix and date")
	ErrStoreUnavailable = errors.New("sequence store unavailable")
)

var (
	// Identifiers issued, partitioned by prefix
	idsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idgen_identifiers_issued_total",
			Help: "Total number of identifiers issued",
		},
		[]string{"prefix"},
	)

	// Exhaustion events, partitioned by prefix
	idsExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idgen_prefix_exhausted_total",
			Help: "Total number of allocation calls rejected because the day's capacity was spent",
		},
		[]string{"prefix"},
	)
)

// IDGenerator issues globally unique, date-scoped, human-readable
// identifiers of the form PPP-YYYYMMDD-NNNNN. Every entity-creation path
// calls Generate exactly once, before the entity's first durable write, and
// uses the returned value verbatim as the primary key.
type IDGenerator interface {
	Generate(ctx context.Context, prefix string) (string, error)
}

// IDGeneratorImpl implements IDGenerator on top of the sequence counter
// table. It holds no counter state of its own: caching "next" values in
// process would reintroduce the lost-update race across processes.
type IDGeneratorImpl struct {
	store        repository.SequenceCounterRepository
	location     *time.Location
	maxRetries   int
	retryBackoff time.Duration
	now          func() time.Time
}

// NewIDGenerator creates a new identifier generator. All dates are computed
// in the given location so every process in a deployment scopes counters to
// the same calendar day. maxRetries and retryBackoff bound the internal
// retry loop for transient storage failures.
func NewIDGenerator(store repository.SequenceCounterRepository, location *time.Location, maxRetries int, retryBackoff time.Duration) IDGenerator {
	if location == nil {
		location = time.UTC
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &IDGeneratorImpl{
		store:        store,
		location:     location,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		now:          time.Now,
	}
}

// Generate validates the prefix, allocates the next sequence number for
// today's counter, and formats the identifier. The date is resolved once per
// call and held constant across retries, so a call straddling midnight never
// observes two different dates.
func (g *IDGeneratorImpl) Generate(ctx context.Context, prefix string) (string, error) {
	if err := validatePrefix(prefix); err != nil {
		return "", err
	}

	date := utils.DateStamp(g.now().In(g.location))

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * g.retryBackoff
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("identifier allocation for %s aborted: %w", prefix, ctx.Err())
			case <-time.After(backoff):
			}
		}

		seq, err := g.store.Allocate(ctx, prefix, date)
		if err == nil {
			idsIssuedTotal.WithLabelValues(prefix).Inc()
			return FormatIdentifier(prefix, date, seq), nil
		}
		if errors.Is(err, repository.ErrSequenceExhausted) {
			// Terminal for this key; retrying under a different date
			// would break the date-scoping contract.
			idsExhaustedTotal.WithLabelValues(prefix).Inc()
			return "", fmt.Errorf("prefix %s on %s: %w", prefix, date, ErrPrefixExhausted)
		}
		lastErr = err
	}

	return "", fmt.Errorf("allocating %s on %s after %d attempts: %w: %w",
		prefix, date, g.maxRetries+1, ErrStoreUnavailable, lastErr)
}

// FormatIdentifier renders the canonical PPP-YYYYMMDD-NNNNN form. Pure and
// deterministic; performs no I/O.
func FormatIdentifier(prefix, date string, sequence int) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, date, sequence)
}

// validatePrefix enforces the 3-uppercase-letter shape and membership in the
// fixed registry of entity codes, before any storage is touched.
func validatePrefix(prefix string) error {
	if len(prefix) != 3 {
		return fmt.Errorf("prefix %q must be exactly 3 characters: %w", prefix, ErrInvalidPrefix)
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < 'A' || prefix[i] > 'Z' {
			return fmt.Errorf("prefix %q must contain only uppercase letters: %w", prefix, ErrInvalidPrefix)
		}
	}
	if _, ok := models.KnownPrefixes[prefix]; !ok {
		return fmt.Errorf("prefix %q is not a registered entity code: %w", prefix, ErrInvalidPrefix)
	}
	return nil
}

// IsInvalidPrefix reports whether err is an invalid-prefix failure
func IsInvalidPrefix(err error) bool {
	return errors.Is(err, ErrInvalidPrefix)
}

// IsPrefixExhausted reports whether err is a capacity-exhaustion failure
func IsPrefixExhausted(err error) bool {
	return errors.Is(err, ErrPrefixExhausted)
}

// IsStoreUnavailable reports whether err is a storage-availability failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
