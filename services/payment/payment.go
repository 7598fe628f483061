package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"mobilemech/services/apperr"
	"mobilemech/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentService authorizes a deposit at checkout and settles it when the
// booking finishes.
type PaymentService interface {
	// Enabled reports whether a processor is configured.
	Enabled() bool
	// Authorize places a manual-capture hold; apperr.PaymentFailed on decline.
	Authorize(ctx context.Context, amount float64, paymentMethodID, bookingID string) (string, error)
	Capture(ctx context.Context, intentID string) error
	Void(ctx context.Context, intentID string) error
}

// StripePaymentService implements PaymentService with PaymentIntents.
// The package-level stripe.Key is set once at startup.
type StripePaymentService struct {
	Currency string
}

// NewStripePaymentService returns a Stripe-backed PaymentService, or a
// disabled one when key is empty.
func NewStripePaymentService(key, currency string) PaymentService {
	if key == "" {
		return Disabled{}
	}
	stripe.Key = key
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripePaymentService{Currency: strings.ToLower(currency)}
}

func (s *StripePaymentService) Enabled() bool { return true }

func (s *StripePaymentService) Authorize(ctx context.Context, amount float64, paymentMethodID, bookingID string) (string, error) {
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return "", apperr.NewValidation("payment amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(cents),
		Currency:           stripe.String(s.Currency),
		PaymentMethod:      stripe.String(paymentMethodID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:            stripe.Bool(true),
	}
	params.Context = ctx
	params.AddMetadata("bookingId", bookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		utils.GetLogger().Warn("Payment authorization failed", zap.String("bookingID", bookingID), zap.Error(err))
		return "", apperr.New(apperr.PaymentFailed, "payment could not be authorized").With("bookingId", bookingID)
	}
	if pi.Status != stripe.PaymentIntentStatusRequiresCapture {
		if err := s.Void(ctx, pi.ID); err != nil {
			utils.GetLogger().Error("Failed to void unconfirmed payment",
				zap.String("bookingID", bookingID), zap.String("intentID", pi.ID), zap.Error(err))
		}
		return "", apperr.New(apperr.PaymentFailed, "payment requires additional action (status %s)", pi.Status).
			With("bookingId", bookingID)
	}
	return pi.ID, nil
}

func (s *StripePaymentService) Capture(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	if _, err := paymentintent.Capture(intentID, params); err != nil {
		return fmt.Errorf("capture payment %s: %w", intentID, err)
	}
	return nil
}

func (s *StripePaymentService) Void(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := paymentintent.Cancel(intentID, params); err != nil {
		return fmt.Errorf("void payment %s: %w", intentID, err)
	}
	return nil
}

// Disabled is the PaymentService used when no processor is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Authorize(context.Context, float64, string, string) (string, error) { return "", nil }

func (Disabled) Capture(context.Context, string) error { return nil }

func (Disabled) Void(context.Context, string) error { return nil }
