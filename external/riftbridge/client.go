package riftbridge

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/scrimleague/series-engine/internal/platform/logging"
	"github.com/scrimleague/series-engine/internal/platform/resilience"
	"github.com/scrimleague/series-engine/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL     = "https://api.riftbridge.gg/v1"
	defaultIncludeGame = "sides.bans;sides.players"
	maxMintBatchSize   = 50
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errRiftBridgeTransient = crerr.New("riftbridge transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the RiftBridge tournament API. It is the only
// implementation of usecase.ResultProvider that leaves the process.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

// LookupCompletedGame fetches one finished game by the id RiftBridge
// assigned to it. Concurrent lookups for the same id share a single
// request.
func (c *Client) LookupCompletedGame(ctx context.Context, externalID int64) (*usecase.ExternalGameReport, error) {
	if externalID <= 0 {
		return nil, fmt.Errorf("external game id must be greater than zero")
	}

	path := fmt.Sprintf("/games/%d", externalID)
	query := map[string]string{
		"include": defaultIncludeGame,
	}

	var envelope gameEnvelope
	if err := c.getJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("lookup game external_id=%d: %w", externalID, err)
	}
	if envelope.Data.ID <= 0 {
		return nil, fmt.Errorf("lookup game external_id=%d: provider returned an empty payload", externalID)
	}

	report := mapGamePayload(envelope.Data)
	return &report, nil
}

// MintJoinCodes asks RiftBridge for fresh single-use lobby codes tied
// to the season's tournament registration.
func (c *Client) MintJoinCodes(ctx context.Context, seasonID int64, count int) ([]string, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}
	if count <= 0 || count > maxMintBatchSize {
		return nil, fmt.Errorf("join code count must be between 1 and %d", maxMintBatchSize)
	}

	body := mintRequest{SeasonID: seasonID, Count: count}
	var envelope mintEnvelope
	if err := c.postJSON(ctx, "/join-codes", body, &envelope); err != nil {
		return nil, fmt.Errorf("mint join codes season_id=%d count=%d: %w", seasonID, count, err)
	}

	codes := make([]string, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	if len(codes) < count {
		return nil, fmt.Errorf("%w: provider minted %d of %d join codes", errRiftBridgeTransient, len(codes), count)
	}
	return codes[:count], nil
}

func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, target any) error {
	fullURL := c.buildURL(path, query)

	key := http.MethodGet + " " + fullURL
	out, err := c.flight.Do(key, func() (any, error) {
		return c.guardedRequest(ctx, http.MethodGet, fullURL, nil)
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, target any) error {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(payload)

	raw, err := c.guardedRequest(ctx, http.MethodPost, c.buildURL(path, nil), buf.B)
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

// guardedRequest runs one provider call through the circuit breaker,
// counting only transient failures against it.
func (c *Client) guardedRequest(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "riftbridge circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match-result provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	raw, err := c.executeRequest(ctx, method, fullURL, body)
	if c.circuitEnabled {
		if err != nil && isRiftBridgeCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if body != nil {
			req.Header.Set("content-type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errRiftBridgeTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errRiftBridgeTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errRiftBridgeTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "riftbridge request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) buildURL(path string, query map[string]string) string {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	return fullURL
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func isRiftBridgeCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errRiftBridgeTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
