package checkout

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"

	"paycheckout/internal/entity"

	"github.com/goccy/go-json"
	"golang.org/x/text/encoding/charmap"
)

const (
	_maxRawBody = 4 << 10

	RelPay         = "PAY"
	RelSelf        = "SELF"
	RelQRCodeImage = "QRCODE.PNG"

	_rootCheckout    = "checkout"
	_rootTransaction = "transaction"
	_rootError       = "error"
)

type (
	xmlError struct {
		Code    string `xml:"code"`
		Message string `xml:"message"`
	}

	// xmlDocument matches <checkout>, <transaction>, <errors> and bare <error> roots.
	xmlDocument struct {
		XMLName      xml.Name
		Code         string     `xml:"code"`
		Message      string     `xml:"message"`
		Reference    string     `xml:"reference"`
		QRCode       string     `xml:"qrCode"`
		QRCodeText   string     `xml:"qrCodeText"`
		Errors       []xmlError `xml:"error"`
		NestedErrors []xmlError `xml:"errors>error"`
	}

	jsonLink struct {
		Rel   string `json:"rel"`
		Href  string `json:"href"`
		Media string `json:"media"`
		Type  string `json:"type"`
	}

	jsonQRCode struct {
		ID    string     `json:"id"`
		Text  string     `json:"text"`
		Links []jsonLink `json:"links"`
	}

	jsonPaymentMethod struct {
		Type   string `json:"type"`
		QRCode string `json:"qr_code"`
		Text   string `json:"text"`
	}

	jsonCharge struct {
		ID            string             `json:"id"`
		Status        string             `json:"status"`
		PaymentMethod *jsonPaymentMethod `json:"payment_method"`
	}

	jsonErrorMessage struct {
		Code          string `json:"code"`
		Description   string `json:"description"`
		ParameterName string `json:"parameter_name"`
		Error         string `json:"error"`
	}

	jsonDocument struct {
		ID            string             `json:"id"`
		ReferenceID   string             `json:"reference_id"`
		Links         *[]jsonLink        `json:"links"`
		QRCodes       []jsonQRCode       `json:"qr_codes"`
		PaymentMethod *jsonPaymentMethod `json:"payment_method"`
		Charges       []jsonCharge       `json:"charges"`
		ErrorMessages []jsonErrorMessage `json:"error_messages"`
	}
)

// Normalize maps a gateway response onto the stable client-facing result.
func Normalize(
	profile entity.Profile,
	payload *entity.OutboundPayload,
	resp *entity.GatewayResponse,
) *entity.GatewayResult {
	if !resp.IsSuccess() {
		return normalizeStatus(profile, resp)
	}

	switch p := profile.(type) {
	case *entity.FormProfile:
		return normalizeXML(p, payload, resp)
	case *entity.JSONProfile:
		return normalizeJSON(p, payload, resp)
	default:
		return entity.Failed(&entity.Failure{
			Kind:       entity.FailureMalformedResponse,
			Message:    fmt.Sprintf("no normalizer for profile %T", profile),
			RawBody:    rawBody(resp.Body),
			StatusCode: resp.StatusCode,
			Err:        entity.ErrUnknownProfile,
		})
	}
}

// TransportFailure wraps a failed round trip (timeout, refused, DNS) as unavailable.
func TransportFailure(err error) *entity.GatewayResult {
	return entity.Failed(&entity.Failure{
		Kind:    entity.FailureGatewayUnavailable,
		Message: "gateway did not respond",
		Err:     err,
	})
}

func normalizeStatus(profile entity.Profile, resp *entity.GatewayResponse) *entity.GatewayResult {
	kind := entity.FailureGatewayUnavailable
	if resp.IsClientError() {
		kind = entity.FailureGatewayRejected
	}

	message := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
	if details := errorDetails(profile, resp.Body); details != "" {
		message += ": " + details
	}

	return entity.Failed(&entity.Failure{
		Kind:       kind,
		Message:    message,
		RawBody:    rawBody(resp.Body),
		StatusCode: resp.StatusCode,
	})
}

func errorDetails(profile entity.Profile, body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}

	if profile.Encoding() == entity.EncodingForm {
		doc, err := decodeXML(body)
		if err != nil {
			return ""
		}
		return joinXMLErrors(doc.allErrors())
	}

	var doc jsonDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	return joinJSONErrors(doc.ErrorMessages)
}

func normalizeXML(
	p *entity.FormProfile,
	payload *entity.OutboundPayload,
	resp *entity.GatewayResponse,
) *entity.GatewayResult {
	doc, err := decodeXML(resp.Body)
	if err != nil {
		return malformed(resp, "unparseable XML body", err)
	}

	if errs := doc.allErrors(); len(errs) > 0 {
		return entity.Failed(&entity.Failure{
			Kind:       entity.FailureGatewayRejected,
			Message:    joinXMLErrors(errs),
			RawBody:    rawBody(resp.Body),
			StatusCode: resp.StatusCode,
		})
	}

	switch doc.XMLName.Local {
	case _rootCheckout, _rootTransaction:
	default:
		return malformed(resp, fmt.Sprintf("unexpected XML root <%s>", doc.XMLName.Local), nil)
	}

	code := strings.TrimSpace(doc.Code)
	if code == "" {
		return malformed(resp, "response has no checkout code", nil)
	}

	return entity.Succeeded(&entity.Success{
		ReferenceID:   firstNonEmpty(strings.TrimSpace(doc.Reference), payload.ReferenceID),
		GatewayID:     code,
		RedirectURL:   PaymentPageURL(p.PaymentPageURL, code),
		QRCode:        strings.TrimSpace(doc.QRCode),
		CopyPasteCode: strings.TrimSpace(doc.QRCodeText),
	})
}

func normalizeJSON(
	p *entity.JSONProfile,
	payload *entity.OutboundPayload,
	resp *entity.GatewayResponse,
) *entity.GatewayResult {
	var doc jsonDocument
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return malformed(resp, "unparseable JSON body", err)
	}

	if doc.ID == "" {
		return malformed(resp, "response has no id", nil)
	}

	success := &entity.Success{
		ReferenceID: firstNonEmpty(doc.ReferenceID, payload.ReferenceID),
		GatewayID:   doc.ID,
	}

	if doc.Links != nil {
		link, ok := selectLink(*doc.Links, RelPay, RelSelf)
		if !ok {
			return malformed(resp, "no PAY or SELF link in response", nil)
		}
		success.RedirectURL = link.Href
	}

	extractQRCode(&doc, success)

	if p.Resource == entity.ResourceOrder && success.RedirectURL == "" && success.CopyPasteCode == "" {
		return malformed(resp, "order response has neither payment link nor QR code", nil)
	}

	return entity.Succeeded(success)
}

func extractQRCode(doc *jsonDocument, success *entity.Success) {
	if doc.PaymentMethod != nil {
		success.QRCode = doc.PaymentMethod.QRCode
		success.CopyPasteCode = doc.PaymentMethod.Text
	}

	for _, charge := range doc.Charges {
		if charge.PaymentMethod == nil {
			continue
		}
		success.QRCode = firstNonEmpty(success.QRCode, charge.PaymentMethod.QRCode)
		success.CopyPasteCode = firstNonEmpty(success.CopyPasteCode, charge.PaymentMethod.Text)
	}

	if len(doc.QRCodes) > 0 {
		qr := doc.QRCodes[0]
		success.CopyPasteCode = firstNonEmpty(success.CopyPasteCode, qr.Text)
		if link, ok := selectLink(qr.Links, RelQRCodeImage); ok {
			success.QRCodeImageURL = link.Href
		}
	}
}

// selectLink returns the first link matching the earliest rel in preference order.
func selectLink(links []jsonLink, rels ...string) (jsonLink, bool) {
	for _, rel := range rels {
		for _, link := range links {
			if strings.EqualFold(link.Rel, rel) && link.Href != "" {
				return link, true
			}
		}
	}
	return jsonLink{}, false
}

func decodeXML(body []byte) (*xmlDocument, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charsetReader

	var doc xmlDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("checkout.decodeXML: %w", err)
	}
	return &doc, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}

func (d *xmlDocument) allErrors() []xmlError {
	if d.XMLName.Local == _rootError {
		return []xmlError{{Code: d.Code, Message: d.Message}}
	}

	errs := make([]xmlError, 0, len(d.Errors)+len(d.NestedErrors))
	errs = append(errs, d.Errors...)
	return append(errs, d.NestedErrors...)
}

func joinXMLErrors(errs []xmlError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, strings.TrimSpace(e.Code)+": "+strings.TrimSpace(e.Message))
	}
	return strings.Join(parts, "; ")
}

func joinJSONErrors(errs []jsonErrorMessage) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		part := e.Code + ": " + firstNonEmpty(e.Description, e.Error)
		if e.ParameterName != "" {
			part += " (" + e.ParameterName + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

// PaymentPageURL builds the legacy hosted payment page URL for a checkout code.
func PaymentPageURL(base, code string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "code=" + url.QueryEscape(code)
}

func malformed(resp *entity.GatewayResponse, message string, err error) *entity.GatewayResult {
	return entity.Failed(&entity.Failure{
		Kind:       entity.FailureMalformedResponse,
		Message:    message,
		RawBody:    rawBody(resp.Body),
		StatusCode: resp.StatusCode,
		Err:        err,
	})
}

func rawBody(body []byte) string {
	if len(body) > _maxRawBody {
		return string(body[:_maxRawBody])
	}
	return string(body)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
