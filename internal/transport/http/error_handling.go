package httpt

import (
	"errors"
	"net/http"

	"paycheckout/internal/entity"
	"paycheckout/pkg/logger"

	"github.com/gin-gonic/gin"
)

var _failureStatus = map[entity.FailureKind]int{
	entity.FailureValidation:         http.StatusBadRequest,
	entity.FailureGatewayRejected:    http.StatusUnprocessableEntity,
	entity.FailureGatewayUnavailable: http.StatusBadGateway,
	entity.FailureMalformedResponse:  http.StatusInternalServerError,
	entity.FailureInternal:           http.StatusInternalServerError,
}

var _failureMessage = map[entity.FailureKind]string{
	entity.FailureValidation:         "Invalid checkout data",
	entity.FailureGatewayRejected:    "Payment gateway rejected the request",
	entity.FailureGatewayUnavailable: "Payment gateway unavailable, try again",
	entity.FailureMalformedResponse:  "Unexpected response from payment gateway",
	entity.FailureInternal:           "Internal service error",
}

func (h *CheckoutHandler) handleFailure(c *gin.Context, failure *entity.Failure) {
	status, ok := _failureStatus[failure.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Error:   _failureMessage[failure.Kind],
		Kind:    failure.Kind,
		Details: failure.Message,
	})
}

func (h *CheckoutHandler) handleServiceError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:       _failureMessage[entity.FailureValidation],
			Kind:        entity.FailureValidation,
			Details:     validationErr.Error(),
			FieldErrors: validationErr.Fields,
		})
	case errors.Is(err, entity.ErrUnknownProfile):
		log.LogAttrs(ctx, logger.WarnLevel, "checkout profile not enabled",
			logger.String("op", op),
			logger.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Checkout route not enabled",
			Kind:  entity.FailureValidation,
		})
	default:
		log.LogAttrs(ctx, logger.ErrorLevel, "internal server error",
			logger.String("op", op),
			logger.Err(err),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: _failureMessage[entity.FailureInternal],
			Kind:  entity.FailureInternal,
		})
	}
}

func (h *CheckoutHandler) handleBadBody(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()

	h.log.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "invalid request body",
		logger.String("op", op),
		logger.Err(err),
		logger.String("remote_addr", c.ClientIP()),
		logger.String("user_agent", c.Request.UserAgent()),
	)

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Request body must be a JSON object",
		Kind:    entity.FailureValidation,
		Details: err.Error(),
	})
}
