// Package payments wraps the Switch Payments HTTP API. Webhook calls carry
// only an event ID; the event body is always fetched back from the provider
// before any order state is touched.
package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yoonic/atlas/config"
)

// Event types delivered by the provider.
const (
	EventChargeCreated     = "charge.created"
	EventInstrumentSuccess = "instrument.success"
	EventInstrumentError   = "instrument.error"
	EventPaymentSuccess    = "payment.success"
	EventPaymentError      = "payment.error"
)

// Event is a payment-provider event fetched by ID.
type Event struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Charge     Charge     `json:"charge"`
	Instrument Instrument `json:"instrument"`
	Payment    Payment    `json:"payment"`
}

type Charge struct {
	ID         string         `json:"id"`
	ChargeType string         `json:"charge_type"`
	Amount     float64        `json:"amount"`
	Metadata   ChargeMetadata `json:"metadata"`
}

// ChargeMetadata echoes back the fields we attach when creating a charge.
// OrderID ties the provider event to one of our orders.
type ChargeMetadata struct {
	OrderID string `json:"orderId"`
}

type Instrument struct {
	ID       string         `json:"id"`
	Redirect map[string]any `json:"redirect"`
}

type Payment struct {
	ID string `json:"id"`
}

// EventSource is what the webhook reconciler needs from the provider.
type EventSource interface {
	FetchEvent(eventID string) (*Event, error)
	ConfirmCharge(chargeID string) error
}

// Client is the production EventSource.
type Client struct {
	cfg    config.SwitchConfig
	client *http.Client
}

func NewClient(cfg config.SwitchConfig) *Client {
	return &Client{cfg: cfg, client: &http.Client{}}
}

func (c *Client) FetchEvent(eventID string) (*Event, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/events/%s", c.cfg.BaseURL, eventID), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.cfg.AccountID, c.cfg.PrivateKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payments: unable to reach provider: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payments: event fetch returned %d: %s", resp.StatusCode, string(body))
	}

	var event Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("payments: unable to parse event: %w", err)
	}
	return &event, nil
}

func (c *Client) ConfirmCharge(chargeID string) error {
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/charges/%s/confirm", c.cfg.BaseURL, chargeID),
		bytes.NewReader([]byte("{}")))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.AccountID, c.cfg.PrivateKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payments: unable to reach provider: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payments: charge confirm returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
