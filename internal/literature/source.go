// Package literature wraps access to biomedical literature abstracts behind
// a resilient, rate-limited LiteratureSource.
package literature

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// BatchFetcher is the raw, unreliable upstream call a ResilientSource wraps:
// one page of abstracts plus whether more pages remain.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, offset int) (abstracts []domain.Abstract, hasMore bool, err error)
}

// ResilientSource implements domain.LiteratureSource around a BatchFetcher,
// guarding it with a circuit breaker and a rate limiter exactly as the prior
// codebase guarded its external gene-annotation API clients.
type ResilientSource struct {
	fetcher BatchFetcher
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	log     *logrus.Logger
}

// NewResilientSource builds a ResilientSource. ratePerSecond <= 0 disables
// rate limiting (useful for an in-memory fetcher in tests).
func NewResilientSource(fetcher BatchFetcher, ratePerSecond float64, logger *logrus.Logger) *ResilientSource {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "literature-source",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from, "to": to}).Warn("literature source circuit breaker state change")
		},
	})

	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}

	return &ResilientSource{fetcher: fetcher, breaker: breaker, limiter: limiter, log: logger}
}

// IterAbstracts implements domain.LiteratureSource. A circuit-open upstream,
// or any fetch error, ends iteration without a retry and without returning
// an error: missing literature support is a zero value downstream,
// never a pipeline failure.
func (s *ResilientSource) IterAbstracts(ctx context.Context, fn func(domain.Abstract) error) error {
	offset := 0
	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		result, err := s.breaker.Execute(func() (interface{}, error) {
			abstracts, hasMore, err := s.fetcher.FetchBatch(ctx, offset)
			return batchResult{abstracts: abstracts, hasMore: hasMore}, err
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				s.log.WithField("offset", offset).Warn("literature source unavailable, yielding partial results")
				return nil
			}
			s.log.WithError(err).WithField("offset", offset).Warn("literature source fetch failed, yielding partial results")
			return nil
		}

		batch := result.(batchResult)
		for _, a := range batch.abstracts {
			if err := fn(a); err != nil {
				return err
			}
		}

		offset += len(batch.abstracts)
		if !batch.hasMore {
			return nil
		}
	}
}

type batchResult struct {
	abstracts []domain.Abstract
	hasMore   bool
}

var _ domain.LiteratureSource = (*ResilientSource)(nil)
