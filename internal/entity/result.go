package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type FailureKind string

const (
	FailureValidation         FailureKind = "validation_error"
	FailureGatewayRejected    FailureKind = "gateway_rejected"
	FailureGatewayUnavailable FailureKind = "gateway_unavailable"
	FailureMalformedResponse  FailureKind = "malformed_response"
	// FailureInternal marks errors raised by this service, never by the gateway.
	FailureInternal FailureKind = "internal_error"
)

type (
	Success struct {
		ReferenceID    string
		GatewayID      string
		RedirectURL    string
		QRCode         string
		QRCodeImageURL string
		CopyPasteCode  string
		Amount         decimal.Decimal
	}

	Failure struct {
		Kind       FailureKind
		Message    string
		RawBody    string
		StatusCode int
		Err        error
	}

	// GatewayResult holds exactly one of Success or Failure.
	GatewayResult struct {
		Success *Success
		Failure *Failure
	}
)

func Succeeded(s *Success) *GatewayResult {
	return &GatewayResult{Success: s}
}

func Failed(f *Failure) *GatewayResult {
	return &GatewayResult{Failure: f}
}

// Err returns the failure as an error, or nil on success.
func (r *GatewayResult) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
