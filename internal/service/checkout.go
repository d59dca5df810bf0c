package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"paycheckout/internal/checkout"
	"paycheckout/internal/entity"
	"paycheckout/pkg/logger"
	"paycheckout/pkg/metric"
)

//go:generate mockgen -source=checkout.go -destination=mock/checkout.go -package=mock_service

const _outcomeSuccess = "success"

type (
	Gateway interface {
		Send(ctx context.Context, payload *entity.OutboundPayload) (*entity.GatewayResponse, error)
	}

	PayloadBuilder interface {
		Build(req *entity.CheckoutRequest, profile entity.Profile) (*entity.OutboundPayload, error)
	}

	CheckoutService struct {
		profiles  map[string]entity.Profile
		validator *checkout.Validator
		builder   PayloadBuilder
		gateway   Gateway
		metrics   metric.Gateway
		logger    logger.Logger
	}
)

func NewCheckoutService(
	profiles map[string]entity.Profile,
	validator *checkout.Validator,
	builder PayloadBuilder,
	gateway Gateway,
	metrics metric.Gateway,
	logger logger.Logger,
) *CheckoutService {
	return &CheckoutService{
		profiles:  profiles,
		validator: validator,
		builder:   builder,
		gateway:   gateway,
		metrics:   metrics,
		logger:    logger,
	}
}

// Profiles lists the enabled profile names in a stable order.
func (cs *CheckoutService) Profiles() []string {
	names := make([]string, 0, len(cs.profiles))
	for name := range cs.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cs *CheckoutService) HasProfile(name string) bool {
	_, ok := cs.profiles[name]
	return ok
}

// Checkout runs one storefront request through validation, payload building, a
// single gateway call and normalization.
//
// The returned error is non-nil only when no gateway call was attempted: an
// *entity.ValidationError for bad input, entity.ErrUnknownProfile for a disabled
// profile, or a payload build error. Every gateway outcome, including failures,
// comes back as a *entity.GatewayResult.
func (cs *CheckoutService) Checkout(
	ctx context.Context,
	profileName string,
	raw *entity.RawCheckout,
) (*entity.GatewayResult, error) {
	const op = "service.Checkout"
	log := cs.logger.Ctx(ctx)

	profile, ok := cs.profiles[profileName]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, entity.ErrUnknownProfile, profileName)
	}

	req, err := cs.validator.Validate(raw, profile)
	if err != nil {
		var validationErr *entity.ValidationError
		if errors.As(err, &validationErr) {
			cs.metrics.Outcome(profileName, string(entity.FailureValidation))
			log.LogAttrs(ctx, logger.InfoLevel, "checkout rejected by validation",
				logger.String("op", op),
				logger.String("profile", profileName),
				logger.Int("violations", len(validationErr.Fields)),
				logger.String("details", validationErr.Error()),
			)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := cs.builder.Build(req, profile)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "failed to build gateway payload",
			logger.String("op", op),
			logger.String("profile", profileName),
			logger.Err(err),
		)
		return nil, fmt.Errorf("%s: build payload: %w", op, err)
	}

	start := time.Now()
	var result *entity.GatewayResult

	resp, err := cs.gateway.Send(ctx, payload)
	if err != nil {
		result = checkout.TransportFailure(err)
	} else {
		result = checkout.Normalize(profile, payload, resp)
	}

	if result.Success != nil {
		result.Success.Amount = req.Amount
		cs.metrics.Outcome(profileName, _outcomeSuccess)
		log.LogAttrs(ctx, logger.InfoLevel, "checkout created",
			logger.String("op", op),
			logger.String("profile", profileName),
			logger.String("reference_id", result.Success.ReferenceID),
			logger.String("gateway_id", result.Success.GatewayID),
			logger.String("amount", checkout.FormatAmount(req.Amount)),
			logger.Duration("duration", time.Since(start)),
		)
		return result, nil
	}

	failure := result.Failure
	cs.metrics.Outcome(profileName, string(failure.Kind))
	log.LogAttrs(ctx, logger.WarnLevel, "checkout failed at gateway",
		logger.String("op", op),
		logger.String("profile", profileName),
		logger.String("reference_id", payload.ReferenceID),
		logger.String("kind", string(failure.Kind)),
		logger.Int("gateway_status", failure.StatusCode),
		logger.String("message", failure.Message),
		logger.String("raw_body", failure.RawBody),
		logger.Duration("duration", time.Since(start)),
	)
	return result, nil
}
