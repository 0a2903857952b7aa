package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
	"github.com/riskibarqy/pingpong-club/internal/platform/resilience"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookConfig struct {
	URL     string
	Timeout time.Duration
	Breaker resilience.Config
}

// Webhook posts division announcements as JSON to a chat or bot endpoint.
type Webhook struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	breaker *resilience.Breaker
	logger  *logging.Logger
}

var _ usecase.Notifier = (*Webhook)(nil)

func NewWebhook(cfg WebhookConfig, logger *logging.Logger) (*Webhook, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Webhook{
		client: &fasthttp.Client{
			Name:         "pingpong-club-notify",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		url:     target,
		timeout: timeout,
		breaker: resilience.NewBreaker(cfg.Breaker),
		logger:  logger,
	}, nil
}

type announcementPayload struct {
	Title string `json:"title"`
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
	Count int    `json:"count"`
}

// Announce publishes a. Transient failures (timeouts, 429, 5xx) move the
// breaker; while it is open announcements fail fast.
func (w *Webhook) Announce(ctx context.Context, a usecase.Announcement) error {
	body, err := sonic.Marshal(announcementPayload{
		Title: a.Title,
		Kind:  string(a.Kind),
		Text:  summaryText(a),
		HTML:  a.HTML,
		Count: len(a.Rows),
	})
	if err != nil {
		return crerr.Wrap(err, "marshal announcement")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.url", w.url),
			attribute.String("notify.title", a.Title),
			attribute.Int("notify.rows", len(a.Rows)),
		)
	}

	err = w.breaker.Execute(func() error {
		return w.post(ctx, body)
	}, func(err error) bool {
		return crerr.Is(err, errWebhookTransient)
	})
	if crerr.Is(err, resilience.ErrOpen) {
		w.logger.WarnContext(ctx, "notify breaker rejected announcement", "state", w.breaker.State(), "title", a.Title)
		return fmt.Errorf("%w: announcement webhook is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "announcement published", "title", a.Title, "rows", len(a.Rows))
	return nil
}

func (w *Webhook) post(ctx context.Context, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(w.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline := time.Now().Add(w.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := w.client.DoDeadline(req, resp, deadline); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "post announcement url=%s", w.url), errWebhookTransient)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		return nil
	}
	raw := strings.TrimSpace(string(truncate(resp.Body(), 1024)))
	callErr := crerr.Newf("post announcement status=%d url=%s body=%s", status, w.url, raw)
	if isRetryableStatus(status) {
		return crerr.Mark(callErr, errWebhookTransient)
	}
	return callErr
}

func summaryText(a usecase.Announcement) string {
	var b strings.Builder
	b.WriteString(a.Title)
	for _, row := range a.Rows {
		if row.Movement == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(row.Name)
		b.WriteString(": ")
		b.WriteString(string(row.Movement))
	}
	return b.String()
}

func truncate(body []byte, max int) []byte {
	if len(body) <= max {
		return body
	}
	return body[:max]
}

func validateHTTPURL(raw string) (string, error) {
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
	return candidate, nil
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
