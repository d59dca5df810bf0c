//nolint:mnd
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var _statuses = []string{"WAITING", "IN_ANALYSIS", "PAID", "DECLINED", "CANCELED"}

type (
	chargeNotification struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	orderNotification struct {
		ID          string               `json:"id"`
		ReferenceID string               `json:"reference_id"`
		Charges     []chargeNotification `json:"charges"`
	}

	notification struct {
		contentType string
		body        []byte
		label       string
	}
)

func main() {
	target := flag.String("url", "http://localhost:3000/api/webhook", "Webhook endpoint to post notifications to")
	numMessages := flag.Int("count", 1, "Number of notifications to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between notifications")
	legacy := flag.Bool("legacy", false, "Send legacy notificationCode forms instead of REST JSON")
	repeat := flag.Int("repeat", 1, "Times each notification is delivered, to exercise de-duplication")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}

	log.Printf(
		"Starting webhook simulator. Will send %d notifications (x%d) to '%s' every %v\n",
		*numMessages,
		*repeat,
		*target,
		*interval,
	)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for sent := 0; sent < *numMessages; sent++ {
		n, err := generateNotification(*legacy)
		if err != nil {
			log.Printf("Failed to build notification: %v", err)
			return
		}

		for range *repeat {
			deliver(ctx, client, *target, n)
		}

		if sent+1 == *numMessages {
			break
		}

		select {
		case <-ctx.Done():
			log.Println("Shutting down simulator...")
			return
		case <-ticker.C:
		}
	}

	log.Printf("Sent all %d notifications. Exiting.\n", *numMessages)
}

func deliver(ctx context.Context, client *http.Client, target string, n *notification) {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, target, bytes.NewReader(n.body))
	if err != nil {
		log.Printf("Failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", n.contentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Failed to deliver %s: %v", n.label, err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	log.Printf("Delivered %s: %d %s", n.label, resp.StatusCode, strings.TrimSpace(string(body)))
}

func generateNotification(legacy bool) (*notification, error) {
	if legacy {
		return generateLegacyNotification(), nil
	}
	return generateOrderNotification()
}

func generateOrderNotification() (*notification, error) {
	orderID := gatewayID("ORDE")
	status := _statuses[gofakeit.Number(0, len(_statuses)-1)]

	payload := orderNotification{
		ID:          orderID,
		ReferenceID: fmt.Sprintf("MG_%d", gofakeit.Uint32()),
		Charges: []chargeNotification{{
			ID:     gatewayID("CHAR"),
			Status: status,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order notification: %w", err)
	}

	return &notification{
		contentType: "application/json",
		body:        body,
		label:       orderID + " " + status,
	}, nil
}

func generateLegacyNotification() *notification {
	code := strings.ToUpper(gofakeit.Regex(`[0-9A-F]{6}-[0-9A-F]{12}-[0-9A-F]{4}-[0-9A-F]{6}`))

	form := url.Values{}
	form.Set("notificationCode", code)
	form.Set("notificationType", "transaction")

	return &notification{
		contentType: "application/x-www-form-urlencoded",
		body:        []byte(form.Encode()),
		label:       "notificationCode " + code,
	}
}

func gatewayID(prefix string) string {
	return prefix + "_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
