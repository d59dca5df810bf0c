package entity

import (
	"net/url"
	"strings"
	"time"
)

type (
	FormField struct {
		Key   string
		Value string
	}

	// FormFields keeps insertion order on the wire, unlike url.Values.
	FormFields []FormField

	OutboundPayload struct {
		Profile     string
		ReferenceID string
		Endpoint    string
		ContentType string
		Headers     map[string]string
		Form        FormFields
		Document    any
		Body        []byte
	}

	GatewayResponse struct {
		StatusCode  int
		ContentType string
		Body        []byte
		Duration    time.Duration
	}
)

func (f *FormFields) Add(key, value string) {
	*f = append(*f, FormField{Key: key, Value: value})
}

func (f FormFields) Get(key string) string {
	for _, field := range f {
		if field.Key == key {
			return field.Value
		}
	}
	return ""
}

func (f FormFields) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
	}
	return b.String()
}

func (r *GatewayResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *GatewayResponse) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}
