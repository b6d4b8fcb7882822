package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/metrics"
)

const (
	profanityServiceName = "bad words API"
	maxResponseBytes     = 1 << 20
)

var errModerationNotConfigured = errors.New("moderation API key is not configured")

// Censor replaces profanity in user text. Implementations return a
// moderation AppError on failure.
type Censor interface {
	Check(ctx context.Context, text string) (string, error)
}

type BadWord struct {
	Original    string `json:"original"`
	Word        string `json:"word"`
	Deviations  int64  `json:"deviations"`
	Info        int64  `json:"info"`
	ReplacedLen int64  `json:"replacedLen"`
}

type BadWordsResponse struct {
	Content         string    `json:"content"`
	BadWordsTotal   int64     `json:"bad_words_total"`
	BadWordsList    []BadWord `json:"bad_words_list"`
	CensoredContent *string   `json:"censored_content"`
}

type apiErrorResponse struct {
	Message string `json:"message"`
}

type ProfanityConfig struct {
	APIURL        string
	APIKey        string
	Timeout       time.Duration
	RetryBase     time.Duration
	MaxBackoff    time.Duration
	MaxAttempts   int
	RatePerSecond float64
}

type ProfanityClient struct {
	cfg     ProfanityConfig
	client  *http.Client
	limiter *rate.Limiter
	metrics *metrics.Registry
}

func NewProfanityClient(cfg ProfanityConfig, m *metrics.Registry) *ProfanityClient {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	burst := int(cfg.RatePerSecond)
	if burst < 1 {
		burst = 1
	}

	return &ProfanityClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		metrics: m,
	}
}

// Check sends text to the censor API and returns the censored version.
// Transport failures and transient statuses (429, 5xx) are retried with
// exponential backoff up to MaxAttempts in total.
func (c *ProfanityClient) Check(ctx context.Context, text string) (string, error) {
	if c.cfg.APIKey == "" {
		c.observe(metrics.OutcomeTransportError, 0)
		return "", apperrors.ModerationTransport(errModerationNotConfigured)
	}

	start := time.Now()
	backoff := retry.NewExponential(c.cfg.RetryBase)
	if c.cfg.MaxBackoff > 0 {
		backoff = retry.WithCappedDuration(c.cfg.MaxBackoff, backoff)
	}
	backoff = retry.WithMaxRetries(uint64(c.cfg.MaxAttempts-1), backoff)

	var censored string
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		result, err := c.attempt(ctx, text)
		if err != nil {
			if ctx.Err() == nil && isTransient(err) {
				log.Warn().
					Err(err).
					Int("attempt", attempt).
					Int("maxAttempts", c.cfg.MaxAttempts).
					Msg("moderation attempt failed, retrying")
				return retry.RetryableError(err)
			}
			return err
		}
		censored = result
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		if !apperrors.IsAppError(err) {
			// context cancellation while waiting between attempts
			err = apperrors.ModerationTransport(err)
		}
		c.observe(outcomeOf(err), elapsed)
		log.Error().
			Err(err).
			Int("attempts", attempt).
			Dur("elapsed", elapsed).
			Msg("moderation check failed")
		return "", err
	}

	c.observe(metrics.OutcomeSuccess, elapsed)
	log.Debug().
		Int("attempts", attempt).
		Dur("elapsed", elapsed).
		Msg("moderation check succeeded")
	return censored, nil
}

func (c *ProfanityClient) attempt(ctx context.Context, text string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", apperrors.ModerationTransport(fmt.Errorf("wait for rate limiter: %w", err))
	}
	if c.metrics != nil {
		c.metrics.ModerationAttempts.Inc()
	}

	endpoint, err := c.endpoint()
	if err != nil {
		return "", apperrors.External(profanityServiceName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return "", apperrors.External(profanityServiceName, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.ModerationTransport(fmt.Errorf("moderation request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", apperrors.ModerationTransport(fmt.Errorf("read moderation response: %w", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var parsed BadWordsResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", apperrors.External(profanityServiceName, fmt.Errorf("decode response: %w", err))
		}
		if parsed.CensoredContent == nil {
			return "", apperrors.External(profanityServiceName, errors.New("response has no censored_content"))
		}
		return *parsed.CensoredContent, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", apperrors.ModerationClient(resp.StatusCode, errorMessage(resp.StatusCode, body))
	case resp.StatusCode >= 500:
		return "", apperrors.ModerationServer(resp.StatusCode, errorMessage(resp.StatusCode, body))
	default:
		return "", apperrors.External(profanityServiceName, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func (c *ProfanityClient) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return "", fmt.Errorf("parse moderation url: %w", err)
	}
	q := u.Query()
	q.Set("censor_character", "*")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *ProfanityClient) observe(outcome string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ModerationRequests.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		c.metrics.ModerationDuration.Observe(elapsed.Seconds())
	}
}

// errorMessage pulls the message field out of an error body, falling back to
// the raw body and then the status text.
func errorMessage(status int, body []byte) string {
	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return http.StatusText(status)
}

func isTransient(err error) bool {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case apperrors.ErrCodeModerationServer:
		return true
	case apperrors.ErrCodeModerationTransport:
		return true
	case apperrors.ErrCodeModerationClient:
		upstream, _ := appErr.Upstream()
		return upstream.Status == http.StatusTooManyRequests
	}
	return false
}

func outcomeOf(err error) string {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeModerationClient:
		return metrics.OutcomeClientError
	case apperrors.ErrCodeModerationServer:
		return metrics.OutcomeServerError
	case apperrors.ErrCodeExternal:
		return metrics.OutcomeInvalidResponse
	default:
		return metrics.OutcomeTransportError
	}
}
