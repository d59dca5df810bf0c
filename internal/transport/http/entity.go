// nolint: revive,staticcheck
// swagger:meta
package httpt

import (
	"paycheckout/internal/checkout"
	"paycheckout/internal/entity"
)

// swagger:model ErrorResponse
type ErrorResponse struct {
	Success     bool                `json:"success"`
	Error       string              `json:"error"`
	Kind        entity.FailureKind  `json:"kind"`
	Details     string              `json:"details,omitempty"`
	FieldErrors []entity.FieldError `json:"field_errors,omitempty"`
}

// swagger:model CheckoutResponse
type CheckoutResponse struct {
	Success        bool   `json:"success"`
	ReferenceID    string `json:"reference_id"`
	GatewayID      string `json:"gateway_id,omitempty"`
	RedirectURL    string `json:"redirect_url,omitempty"`
	QRCode         string `json:"qr_code,omitempty"`
	QRCodeImageURL string `json:"qr_code_image_url,omitempty"`
	CopyPasteCode  string `json:"copy_paste_code,omitempty"`
	Amount         string `json:"amount"`
}

// swagger:model StatusResponse
type StatusResponse struct {
	Status         string   `json:"status"`
	Service        string   `json:"service"`
	Version        string   `json:"version"`
	DefaultProfile string   `json:"default_profile"`
	Profiles       []string `json:"profiles"`
	Routes         []string `json:"routes"`
}

// swagger:model CheckoutRequest
type CheckoutRequest entity.RawCheckout

func newCheckoutResponse(s *entity.Success) CheckoutResponse {
	return CheckoutResponse{
		Success:        true,
		ReferenceID:    s.ReferenceID,
		GatewayID:      s.GatewayID,
		RedirectURL:    s.RedirectURL,
		QRCode:         s.QRCode,
		QRCodeImageURL: s.QRCodeImageURL,
		CopyPasteCode:  s.CopyPasteCode,
		Amount:         checkout.FormatAmount(s.Amount),
	}
}
