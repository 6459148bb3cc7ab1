// Package retrylimit paces and retries Discord REST calls. An AdaptiveLimiter
// slows down when Discord answers 429 and speeds back up after a quiet
// period; WithRetry classifies discordgo errors to decide whether another
// attempt can help.
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
//	err := retrylimit.WithRetry(ctx, func() error {
//	    _, err := s.ApplicationCommandCreate(appID, guildID, def)
//	    return err
//	}, lim)
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter is a rate.Limiter whose rate moves between min and max
// with the outcome of requests. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	cooldown  time.Duration
	lastError time.Time
}

// NewAdaptiveLimiter starts at initial requests per second. Each success adds
// stepUp once cooldown has passed since the last rate limit; each rate limit
// multiplies the rate by stepDown.
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	if initial < min {
		initial = min
	}
	if initial > max {
		initial = max
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
		cooldown: 10 * time.Second,
	}
}

// Wait blocks until a request may go out or ctx ends.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > a.cooldown {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit is the current rate in requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	if l > a.maxLimit {
		l = a.maxLimit
	}
	if l < a.minLimit {
		l = a.minLimit
	}
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(burstFor(l))
	}
}

func burstFor(l rate.Limit) int {
	if int(l) < 1 {
		return 1
	}
	return int(l)
}

// FatalError stops WithRetry at once. Wrap an error in it when retrying
// cannot succeed.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Class is what WithRetry does with an error.
type Class int

const (
	// Retry after a backoff delay.
	Retry Class = iota
	// RateLimited slows the limiter and retries after the advertised delay.
	RateLimited
	// Fatal returns the error to the caller.
	Fatal
)

// Classify sorts an error returned by a discordgo REST call. 429 is rate
// limited; other 4xx responses are fatal because repeating the same request
// gets the same answer; 5xx and transport errors are retried.
func Classify(err error) Class {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return Fatal
	}
	var rle *discordgo.RateLimitError
	if errors.As(err, &rle) {
		return RateLimited
	}
	code, ok := statusCode(err)
	switch {
	case !ok:
		return Retry
	case code == http.StatusTooManyRequests:
		return RateLimited
	case code >= 400 && code < 500:
		return Fatal
	default:
		return Retry
	}
}

func statusCode(err error) (int, bool) {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode, true
	}
	return 0, false
}

// retryAfter is the wait Discord asked for, or fallback when it did not say.
func retryAfter(err error, fallback time.Duration) time.Duration {
	var rle *discordgo.RateLimitError
	if errors.As(err, &rle) && rle.RateLimit != nil && rle.TooManyRequests != nil && rle.RetryAfter > 0 {
		return rle.RetryAfter
	}
	return fallback
}

type RetryConfig struct {
	MaxAttempts    int           // 0 means 100
	InitialDelay   time.Duration // first backoff delay
	MaxDelay       time.Duration // backoff ceiling
	RateLimitDelay time.Duration // wait after a 429 that carried no Retry-After
	Multiplier     float64       // backoff growth per attempt
	Jitter         bool          // add up to 25% random delay
	OnRetry        func(attempt int, err error)
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    5,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: time.Second,
		Multiplier:     2.0,
		Jitter:         true,
	}
}

// WithRetry runs fn until it succeeds, fails fatally, ctx ends or the
// attempts of DefaultRetryConfig run out. lim may be nil.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultRetryConfig())
}

func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 100
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				log.Printf("[Retry] Success after %d attempts", attempt)
			}
			return nil
		}
		lastErr = err

		class := Classify(err)
		if class == Fatal {
			return err
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		var wait time.Duration
		if class == RateLimited {
			if lim != nil {
				lim.RateLimited()
			}
			wait = retryAfter(err, cfg.RateLimitDelay)
			log.Printf("[Retry] Rate limited (attempt %d), waiting %v", attempt, wait)
		} else {
			wait = delay
			if cfg.Jitter {
				wait = addJitter(wait)
			}
			log.Printf("[Retry] Attempt %d failed: %v. Sleeping %v", attempt, err, wait)
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

func addJitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d/4)))
}
