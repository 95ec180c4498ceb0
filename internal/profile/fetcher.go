package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Fetcher errors.
var (
	// ErrFetchCircuitOpen is returned while the profile host is considered down.
	ErrFetchCircuitOpen = errors.New("profile fetch circuit breaker is open")
	// ErrProfileTooLarge is returned when the remote body exceeds MaxBodySize.
	ErrProfileTooLarge = errors.New("remote profile body too large")
)

// FetcherConfig holds configuration for the remote profile fetcher.
type FetcherConfig struct {
	// HTTPClient is the underlying client. Defaults to one with Timeout.
	HTTPClient *http.Client

	// Timeout is the per-request timeout. Default: 10 seconds.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts. Default: 3.
	MaxRetries uint64

	// InitialInterval is the initial retry backoff. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff. Default: 5 seconds.
	MaxInterval time.Duration

	// MaxBodySize caps the accepted profile size in bytes. Default: 1 MiB.
	MaxBodySize int64

	// Logger for fetch operations.
	Logger zerolog.Logger
}

// Fetcher downloads profile bodies over HTTP with retry and circuit
// breaker protection, for callers that distribute profiles by URL
// instead of inlining the body in the request.
type Fetcher struct {
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker[[]byte]
	maxRetries  uint64
	initialWait time.Duration
	maxWait     time.Duration
	maxBody     int64
	logger      zerolog.Logger
}

// NewFetcher creates a remote profile fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 1 << 20
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "profile-fetch",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && ratio >= 0.5
		},
	})

	return &Fetcher{
		client:      client,
		breaker:     breaker,
		maxRetries:  cfg.MaxRetries,
		initialWait: cfg.InitialInterval,
		maxWait:     cfg.MaxInterval,
		maxBody:     cfg.MaxBodySize,
		logger:      cfg.Logger,
	}
}

// Fetch downloads a profile body from the given URL. Transient failures
// (network errors, 5xx) are retried with exponential backoff; an open
// circuit breaker fails immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.initialWait
	bo.MaxInterval = f.maxWait
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, f.maxRetries), ctx)

	var body []byte
	operation := func() error {
		fetched, err := f.breaker.Execute(func() ([]byte, error) {
			return f.fetchOnce(ctx, url)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrFetchCircuitOpen)
			}
			var se *statusError
			if errors.As(err, &se) && se.code < 500 {
				return backoff.Permanent(err)
			}
			if errors.Is(err, ErrProfileTooLarge) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = fetched
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		f.logger.Error().Err(err).Str("url", url).Msg("remote profile fetch failed")
		return nil, err
	}

	f.logger.Debug().Str("url", url).Int("bytes", len(body)).Msg("fetched remote profile")
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBody {
		return nil, ErrProfileTooLarge
	}
	return body, nil
}

// statusError carries a non-200 response status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching profile", e.code)
}
