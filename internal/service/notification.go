package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"paycheckout/internal/entity"
	"paycheckout/pkg/cache"
	"paycheckout/pkg/logger"
	"paycheckout/pkg/metric"

	"github.com/goccy/go-json"
)

//go:generate mockgen -source=notification.go -destination=mock/notification.go -package=mock_service

const _maxRawNotification = 4 << 10

type (
	Publisher interface {
		Publish(ctx context.Context, n *entity.Notification) error
		Close() error
	}

	NotificationService struct {
		dedup          cache.Cache[string, time.Time]
		dedupTTL       time.Duration
		publisher      Publisher
		publishTimeout time.Duration
		metrics        metric.Publisher
		logger         logger.Logger
		now            func() time.Time
	}

	notificationCharge struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	notificationDocument struct {
		ID          string               `json:"id"`
		ReferenceID string               `json:"reference_id"`
		Status      string               `json:"status"`
		Charges     []notificationCharge `json:"charges"`
	}
)

func NewNotificationService(
	dedup cache.Cache[string, time.Time],
	dedupTTL time.Duration,
	publisher Publisher,
	publishTimeout time.Duration,
	metrics metric.Publisher,
	logger logger.Logger,
) *NotificationService {
	return &NotificationService{
		dedup:          dedup,
		dedupTTL:       dedupTTL,
		publisher:      publisher,
		publishTimeout: publishTimeout,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

// Parse extracts a notification from a webhook body. JSON bodies come from the
// REST orders/charges API; form bodies carry the legacy notificationCode.
func (ns *NotificationService) Parse(contentType string, body []byte) (*entity.Notification, error) {
	const op = "service.Notification.Parse"

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%s: %w: empty body", op, entity.ErrInvalidData)
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)

	var (
		n   *entity.Notification
		err error
	)
	switch {
	case mediaType == "application/x-www-form-urlencoded":
		n, err = parseFormNotification(body)
	case mediaType == "application/json", body[0] == '{':
		n, err = parseJSONNotification(body)
	default:
		n, err = parseFormNotification(body)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	n.ReceivedAt = ns.now().UTC()
	n.Raw = string(body)
	if len(n.Raw) > _maxRawNotification {
		n.Raw = n.Raw[:_maxRawNotification]
	}
	return n, nil
}

// Handle publishes n unless an identical notification was seen within the
// de-dup TTL, in which case it returns entity.ErrDuplicateNotification.
func (ns *NotificationService) Handle(ctx context.Context, n *entity.Notification) error {
	const op = "service.Notification.Handle"
	log := ns.logger.Ctx(ctx)

	key := n.DedupKey()
	if !ns.dedup.PutIfAbsent(key, n.ReceivedAt, ns.dedupTTL) {
		ns.metrics.Duplicate(string(n.Source))
		log.LogAttrs(ctx, logger.InfoLevel, "duplicate notification skipped",
			logger.String("op", op),
			logger.String("key", key),
		)
		return fmt.Errorf("%s: %w", op, entity.ErrDuplicateNotification)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ns.publishTimeout)
	defer cancel()

	if err := ns.publisher.Publish(pubCtx, n); err != nil {
		// forget the key so a redelivery is published
		ns.dedup.Delete(key)
		log.LogAttrs(ctx, logger.ErrorLevel, "failed to publish notification",
			logger.String("op", op),
			logger.String("key", key),
			logger.Err(err),
		)
		return fmt.Errorf("%s: publish: %w", op, err)
	}

	return nil
}

func (ns *NotificationService) Close() error {
	if err := ns.publisher.Close(); err != nil {
		return fmt.Errorf("service.Notification.Close: %w", err)
	}
	return nil
}

func parseJSONNotification(body []byte) (*entity.Notification, error) {
	var doc notificationDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidData, err)
	}
	if doc.ID == "" && doc.ReferenceID == "" {
		return nil, fmt.Errorf("%w: notification has neither id nor reference_id", entity.ErrInvalidData)
	}

	n := &entity.Notification{
		ReferenceID: doc.ReferenceID,
		GatewayID:   doc.ID,
		Type:        resourceType(doc.ID),
		Status:      doc.Status,
		Source:      entity.SourceOrders,
	}
	if n.Status == "" && len(doc.Charges) > 0 {
		n.Status = doc.Charges[0].Status
	}
	return n, nil
}

func parseFormNotification(body []byte) (*entity.Notification, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidData, err)
	}

	code := strings.TrimSpace(values.Get("notificationCode"))
	if code == "" {
		return nil, fmt.Errorf("%w: notificationCode is required", entity.ErrInvalidData)
	}

	return &entity.Notification{
		NotificationCode: code,
		Type:             strings.TrimSpace(values.Get("notificationType")),
		Source:           entity.SourceLegacy,
	}, nil
}

func resourceType(id string) string {
	switch {
	case strings.HasPrefix(id, "ORDE_"):
		return "order"
	case strings.HasPrefix(id, "CHAR_"):
		return "charge"
	case strings.HasPrefix(id, "QRCO_"):
		return "qr_code"
	default:
		return ""
	}
}
