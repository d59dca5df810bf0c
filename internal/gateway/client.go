package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"paycheckout/internal/entity"
	"paycheckout/pkg/logger"
	"paycheckout/pkg/metric"
)

const (
	_defaultTimeout   = 30 * time.Second
	_maxResponseBytes = 1 << 20
	_slowCall         = 5 * time.Second
)

// Client performs exactly one outbound call per payload. It never retries.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	log       logger.Logger
	metrics   metric.Gateway
}

func NewClient(log logger.Logger, metrics metric.Gateway, opts ...Option) (*Client, error) {
	c := &Client{
		timeout: _defaultTimeout,
		log:     log,
		metrics: metrics,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("gateway.NewClient: validation: %w", err)
	}

	if c.http == nil {
		c.http = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: time.Second,
				ForceAttemptHTTP2:     true,
			},
		}
	}

	return c, nil
}

// Send posts the payload to its endpoint. Any error means no HTTP response was
// obtained and wraps entity.ErrGatewayUnavailable; every status code, including
// 4xx and 5xx, is returned as a response for the normalizer to classify.
//
// The call is detached from ctx cancellation and bounded only by the client timeout,
// so a storefront disconnect does not abandon an order mid-creation.
func (c *Client) Send(
	ctx context.Context,
	payload *entity.OutboundPayload,
) (*entity.GatewayResponse, error) {
	const op = "gateway.Send"
	log := c.log.Ctx(ctx)

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		callCtx, http.MethodPost, payload.Endpoint, bytes.NewReader(payload.Body),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: build request: %w", op, entity.ErrGatewayUnavailable, err)
	}

	req.Header.Set("Content-Type", payload.ContentType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range payload.Headers {
		req.Header.Set(key, value)
	}
	if requestID := log.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	log.LogAttrs(ctx, logger.DebugLevel, "gateway call started",
		logger.String("op", op),
		logger.String("profile", payload.Profile),
		logger.String("reference_id", payload.ReferenceID),
		logger.String("endpoint", payload.Endpoint),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		reason := transportReason(err)
		c.metrics.TransportError(payload.Profile, reason)
		log.LogAttrs(ctx, logger.ErrorLevel, "gateway call failed",
			logger.String("op", op),
			logger.String("profile", payload.Profile),
			logger.String("reference_id", payload.ReferenceID),
			logger.String("reason", reason),
			logger.Duration("duration", time.Since(start)),
			logger.Err(err),
		)
		return nil, fmt.Errorf("%s: %w: %s: %w", op, entity.ErrGatewayUnavailable, reason, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, _maxResponseBytes))
	duration := time.Since(start)
	if err != nil {
		reason := transportReason(err)
		c.metrics.TransportError(payload.Profile, reason)
		return nil, fmt.Errorf("%s: %w: read body: %w", op, entity.ErrGatewayUnavailable, err)
	}

	c.metrics.Call(payload.Profile, resp.StatusCode, duration)

	level := logger.InfoLevel
	if duration > _slowCall {
		level = logger.WarnLevel
	}
	log.LogAttrs(ctx, level, "gateway call finished",
		logger.String("op", op),
		logger.String("profile", payload.Profile),
		logger.String("reference_id", payload.ReferenceID),
		logger.Int("status", resp.StatusCode),
		logger.Int("body_bytes", len(body)),
		logger.Duration("duration", duration),
	)

	return &entity.GatewayResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Duration:    duration,
	}, nil
}

func transportReason(err error) string {
	var netErr net.Error
	var dnsErr *net.DNSError
	var opErr *net.OpError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &dnsErr):
		return "dns"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return "connect"
	default:
		return "transport"
	}
}
