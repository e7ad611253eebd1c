// Package httpclient sends gateway requests to the remote finance service
// over HTTP and classifies every failure into the domain error types.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
	"github.com/dompet/finance-gateway/internal/pkg/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Config captures the settings of a Dispatcher.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// Dispatcher implements ports.Dispatcher on net/http.
type Dispatcher struct {
	base   *url.URL
	client *http.Client
	tokens ports.TokenSource
	log    zerolog.Logger
}

// New returns a Dispatcher rooted at cfg.BaseURL. tokens supplies the bearer
// token for authenticated requests.
func New(cfg Config, tokens ports.TokenSource, log zerolog.Logger) (*Dispatcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", cfg.BaseURL)
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Dispatcher{base: base, client: client, tokens: tokens, log: log}, nil
}

// Send performs req and returns the body of a 2xx response. An empty body is
// returned as {}.
func (d *Dispatcher) Send(ctx context.Context, req ports.Request) (body json.RawMessage, err error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}
	op := req.Method + " " + route

	defer func() {
		metrics.RequestsTotal.WithLabelValues(req.Method, route, outcome(err)).Inc()
	}()

	var token string
	if req.Auth {
		token, err = d.tokens.ReadToken(ctx)
		if errors.Is(err, domain.ErrNoSession) {
			return nil, &domain.AuthRequiredError{Op: op}
		}
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := d.build(ctx, req, token)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := d.client.Do(httpReq)
	if err != nil {
		d.log.Warn().Err(err).Str("op", op).Msg("finance service unreachable")
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.RequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	if err != nil {
		d.log.Warn().Err(err).Str("op", op).Msg("failed to read response body")
		return nil, &domain.NetworkError{Op: op, Err: err}
	}

	d.log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("finance service responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{Status: resp.StatusCode, Message: errorMessage(raw, req.Fallback)}
		d.log.Warn().Str("op", op).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("finance service rejected request")
		return nil, apiErr
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		d.log.Warn().Str("op", op).Int("status", resp.StatusCode).Msg("finance service returned invalid JSON")
		return nil, &domain.MalformedResponseError{Op: op, Err: errors.New("response body is not valid JSON")}
	}
	return json.RawMessage(raw), nil
}

func (d *Dispatcher) build(ctx context.Context, req ports.Request, token string) (*http.Request, error) {
	target := d.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.Path, err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

// errorMessage picks the message of an error body: "message", then "error",
// then fallback, then a generic status message.
func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var (
		authErr      *domain.AuthRequiredError
		netErr       *domain.NetworkError
		apiErr       *domain.APIError
		malformedErr *domain.MalformedResponseError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth_required"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.As(err, &malformedErr):
		return "malformed"
	default:
		return "error"
	}
}
