package entity

import "time"

type NotificationSource string

const (
	SourceOrders NotificationSource = "orders"
	SourceLegacy NotificationSource = "legacy"
)

// Notification is the asynchronous payment-status message a gateway posts back.
// ReferenceID correlates it with the checkout that produced the order.
type Notification struct {
	ReferenceID      string             `json:"reference_id,omitempty"`
	GatewayID        string             `json:"gateway_id,omitempty"`
	NotificationCode string             `json:"notification_code,omitempty"`
	Type             string             `json:"type,omitempty"`
	Status           string             `json:"status,omitempty"`
	Source           NotificationSource `json:"source"`
	ReceivedAt       time.Time          `json:"received_at"`
	Raw              string             `json:"raw,omitempty"`
}

// DedupKey identifies a notification for duplicate suppression.
func (n *Notification) DedupKey() string {
	if n.NotificationCode != "" {
		return string(n.Source) + ":" + n.NotificationCode
	}
	return string(n.Source) + ":" + n.GatewayID + ":" + n.ReferenceID + ":" + n.Status
}
