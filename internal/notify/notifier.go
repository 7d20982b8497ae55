package notify

import (
	"context"
	"log"
	"time"

	"cardealer/internal/model"
)

// Notifier delivers one-time codes out-of-band. Delivery is best-effort: a
// failed delivery must not fail the initiating request.
type Notifier interface {
	Deliver(ctx context.Context, email string, purpose model.OtpPurpose, code string, expiresAt time.Time) error
}

// ConsoleNotifier writes codes to the process log in place of a real email
// provider.
type ConsoleNotifier struct{}

// NewConsoleNotifier creates a console-backed notifier.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// Deliver prints the code. Never fails.
func (n *ConsoleNotifier) Deliver(_ context.Context, email string, purpose model.OtpPurpose, code string, expiresAt time.Time) error {
	log.Printf("OTP delivery: to=%s purpose=%s code=%s expires=%s",
		email, purpose, code, expiresAt.UTC().Format("2006-01-02 15:04:05 MST"))
	return nil
}
