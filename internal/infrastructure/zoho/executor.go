package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/logger"
)

// TokenProvider supplies access tokens to the executor
type TokenProvider interface {
	ValidAccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) RefreshResult
}

// Request is one outbound API call
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	// Body is JSON-encoded when non-nil
	Body any
	// NoRetry disables the refresh-and-retry on 401
	NoRetry bool
}

// Response is a fully read API response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Executor performs authenticated Zoho requests and recovers from one
// expired-token rejection per call.
type Executor struct {
	tokens     TokenProvider
	httpClient *http.Client
	logger     *zap.Logger
}

// NewExecutor creates an Executor
func NewExecutor(tokens TokenProvider, httpClient *http.Client, log *zap.Logger) *Executor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{tokens: tokens, httpClient: httpClient, logger: log}
}

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// Execute sends req. A 401 triggers exactly one token refresh and one
// reissue of the identical request; any other status is returned as-is.
func (e *Executor) Execute(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if !supportedMethods[method] {
		return nil, integration.NewValidationError("method", fmt.Sprintf("Unsupported HTTP method: %s", req.Method))
	}
	req.Method = method

	token, err := e.tokens.ValidAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("zoho: failed to marshal request body: %w", err)
		}
	}

	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if header.Get("Authorization") == "" {
		header.Set("Authorization", authorization(token))
	}

	resp, err := e.send(ctx, req, header, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || req.NoRetry {
		return resp, nil
	}

	e.logger.Warn("Zoho API returned 401, refreshing token and retrying",
		append(logger.CorrelationFields(ctx),
			zap.String("method", req.Method),
			zap.String("url", resp.URL))...)

	result := e.tokens.Refresh(ctx)
	if !result.OK() {
		return nil, &integration.HTTPError{Status: resp.StatusCode, Body: string(resp.Body), URL: resp.URL}
	}

	header.Set("Authorization", authorization(result.AccessToken))
	retried, err := e.send(ctx, req, header, payload)
	if err != nil {
		return nil, err
	}
	if retried.StatusCode == http.StatusUnauthorized {
		return nil, &integration.HTTPError{Status: retried.StatusCode, Body: string(retried.Body), URL: retried.URL}
	}
	return retried, nil
}

func (e *Executor) send(ctx context.Context, req Request, header http.Header, payload []byte) (*Response, error) {
	target := req.URL
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, integration.NewValidationError("url", err.Error())
	}
	httpReq.Header = header.Clone()
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		e.logger.Error("Zoho API request failed",
			append(logger.CorrelationFields(ctx),
				zap.String("method", req.Method),
				zap.String("url", req.URL),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err))...)
		return nil, &integration.NetworkError{Op: req.Method, URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &integration.NetworkError{Op: req.Method, URL: req.URL, Err: err}
	}

	fields := append(logger.CorrelationFields(ctx),
		zap.String("method", req.Method),
		zap.String("url", req.URL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	if resp.StatusCode >= 400 {
		fields = append(fields, zap.String("body", integration.Truncate(string(respBody), maxLoggedBody)))
		e.logger.Warn("Zoho API request returned error status", fields...)
	} else {
		e.logger.Debug("Zoho API request", fields...)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		URL:        req.URL,
	}, nil
}

func authorization(token string) string {
	return "Zoho-oauthtoken " + token
}
