package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Alerter plays the new-notification alert.
type Alerter interface {
	Alert(ctx context.Context, produced int) error
}

// NopAlerter discards alerts.
type NopAlerter struct{}

// Alert implements Alerter.
func (NopAlerter) Alert(context.Context, int) error { return nil }

// BellAlerter rings the terminal bell on the given writer.
type BellAlerter struct {
	Out io.Writer
}

// Alert implements Alerter.
func (b BellAlerter) Alert(_ context.Context, _ int) error {
	if b.Out == nil {
		return errors.New("bell: no output")
	}
	_, err := io.WriteString(b.Out, "\a")
	return err
}

// WebhookAlerter posts a small JSON document to a webhook URL.
type WebhookAlerter struct {
	URL     string
	Timeout time.Duration
}

// Alert implements Alerter.
func (w WebhookAlerter) Alert(ctx context.Context, produced int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	agent := fiber.Post(w.URL).JSON(fiber.Map{
		"event":    "notifications",
		"produced": produced,
	})
	if w.Timeout > 0 {
		agent = agent.Timeout(w.Timeout)
	}
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code >= fiber.StatusBadRequest {
		return fmt.Errorf("webhook: status %d", code)
	}
	return nil
}

// MultiAlerter fans an alert out to several sinks and joins their errors.
type MultiAlerter []Alerter

// Alert implements Alerter.
func (m MultiAlerter) Alert(ctx context.Context, produced int) error {
	var errs []error
	for _, a := range m {
		if err := a.Alert(ctx, produced); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
