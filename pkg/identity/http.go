package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultTimeout bounds a single call to the identity provider.
const DefaultTimeout = 10 * time.Second

const userInfoPath = "/auth/v1/user"

var tracer = otel.Tracer("carga-platform/pkg/identity")

var errCallerGone = errors.New("identity: caller cancelled")

// HTTPConfig configures the provider adapter. BaseURL and ServiceKey are
// required.
type HTTPConfig struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
	// Client overrides the HTTP client; its Timeout is replaced by Timeout.
	Client *http.Client
}

// HTTPVerifier asks the provider's user-info endpoint about every token. It
// makes exactly one call per verification and never caches, so a revoked
// token stops working immediately.
type HTTPVerifier struct {
	endpoint   string
	serviceKey string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewHTTPVerifier validates cfg and builds the adapter.
func NewHTTPVerifier(cfg HTTPConfig, logger *slog.Logger) (*HTTPVerifier, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("identity: provider base URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("identity: provider service key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := &http.Client{}
	if cfg.Client != nil {
		c := *cfg.Client
		client = &c
	}
	client.Timeout = cfg.Timeout

	v := &HTTPVerifier{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + userInfoPath,
		serviceKey: cfg.ServiceKey,
		client:     client,
		logger:     logger,
	}
	v.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "identity-provider",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		// A caller that hung up says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return v, nil
}

type providerReply struct {
	status int
	body   []byte
}

type userInfo struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}

	ctx, span := tracer.Start(ctx, "identity.Verify")
	defer span.End()

	// Only transport failures count against the breaker; a rejected token
	// is a healthy provider answering.
	res, err := v.breaker.Execute(func() (any, error) {
		reply, err := v.fetch(ctx, rawToken)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, ctx.Err())
		}
		return reply, err
	})
	if errors.Is(err, errCallerGone) {
		v.logger.Debug("identity check abandoned by caller", "error", err)
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider unavailable")
		v.logger.Error("error connecting to identity provider", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	reply := res.(*providerReply)
	span.SetAttributes(attribute.Int("http.status_code", reply.status))
	if reply.status != http.StatusOK {
		v.logger.Warn("identity provider rejected token", "status", reply.status)
		return nil, ErrInvalidToken
	}

	var info userInfo
	if err := json.Unmarshal(reply.body, &info); err != nil {
		span.SetStatus(codes.Error, "malformed user info")
		return nil, fmt.Errorf("%w: decode user info: %w", ErrProviderUnavailable, err)
	}
	if info.ID == "" {
		return nil, ErrInvalidToken
	}
	if info.Role == "" {
		info.Role = DefaultRole
	}
	if info.UserMetadata == nil {
		info.UserMetadata = map[string]any{}
	}
	return &Identity{ID: info.ID, Email: info.Email, Role: info.Role, Metadata: info.UserMetadata}, nil
}

func (v *HTTPVerifier) fetch(ctx context.Context, rawToken string) (*providerReply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)
	req.Header.Set("apikey", v.serviceKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return &providerReply{status: resp.StatusCode, body: body}, nil
}
