package entity

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// RawCheckout is the storefront body as received. Every field is kept as text so
// the validator can report each problem instead of failing on the first decode error.
type RawCheckout struct {
	Amount      Field `json:"amount"`
	Name        Field `json:"name"`
	Email       Field `json:"email"`
	TaxID       Field `json:"cpf"`
	Phone       Field `json:"phone"`
	Street      Field `json:"street"`
	Number      Field `json:"number"`
	Complement  Field `json:"complement"`
	District    Field `json:"district"`
	City        Field `json:"city"`
	State       Field `json:"state"`
	PostalCode  Field `json:"postalCode"`
	Reference   Field `json:"reference"`
	Description Field `json:"description"`
}

// Field accepts a JSON string, number, boolean or null and keeps its textual form.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("entity.Field: unsupported value %s", data)
	default:
		*f = Field(data)
		return nil
	}
}

func (f Field) String() string {
	return string(f)
}
