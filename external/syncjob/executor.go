package syncjob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Executor fires one GET against an internal sync route. Each invocation is a
// single request: success is any 2xx, anything else is the caller's problem.
// Sync routes are idempotent upserts, so at-least-once invocation is safe and
// the executor never retries.
type Executor struct {
	client           *http.Client
	targetBaseURL    string
	apiKey           string
	internalJobToken string
	logger           *slog.Logger
}

type ExecutorConfig struct {
	TargetBaseURL    string
	APIKey           string
	InternalJobToken string
	Timeout          time.Duration
}

func NewExecutor(cfg ExecutorConfig, logger *slog.Logger) *Executor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		client:           &http.Client{Timeout: timeout},
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		apiKey:           strings.TrimSpace(cfg.APIKey),
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
	}
}

// Trigger invokes the sync route at path with the given query parameters. The
// shared secret rides along both as the apiKey query parameter and the
// X-Internal-Job-Token header, matching what the routes accept.
func (e *Executor) Trigger(ctx context.Context, path string, params map[string]string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("sync job path is required")
	}

	baseURL, err := validateHTTPBaseURL(e.targetBaseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid sync target base URL")
	}

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	if e.apiKey != "" {
		values.Set("apiKey", e.apiKey)
	}

	fullURL := baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	curlPreview := buildSyncCurlPreview(baseURL+path, params, e.internalJobToken != "")
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("syncjob.path", path),
			attribute.String("syncjob.request_curl_preview", curlPreview),
		)
	}
	e.logger.InfoContext(ctx, "sync job request", "path", path, "curl_preview", curlPreview)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return crerr.Wrap(err, "create sync job request")
	}
	req.Header.Set("accept", "application/json")
	if e.internalJobToken != "" {
		req.Header.Set("X-Internal-Job-Token", e.internalJobToken)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("trigger sync job path=%s: %s", path, e.sanitize(err.Error()))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("trigger sync job path=%s status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	e.logger.InfoContext(ctx, "sync job completed", "path", path)
	return nil
}

func (e *Executor) sanitize(value string) string {
	if e.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, e.apiKey, "REDACTED")
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildSyncCurlPreview(targetURL string, params map[string]string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	values.Set("apiKey", "***")

	appendPart("curl")
	appendPart(shellQuote(targetURL + "?" + values.Encode()))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("X-Internal-Job-Token: ***"))
	}

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}
