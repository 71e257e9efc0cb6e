package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"vastusite/internal/ids"
	"vastusite/internal/security"
)

// CheckoutService is a stand-in for the payment gateway: it mints order ids and
// verifies callback signatures, but never moves money.
type CheckoutService struct {
	keyID     string
	keySecret string
	log       zerolog.Logger
}

func NewCheckoutService(keyID, keySecret string, log zerolog.Logger) *CheckoutService {
	return &CheckoutService{keyID: keyID, keySecret: keySecret, log: log}
}

type CreateOrderInput struct {
	PlanID   string
	Amount   int64
	Currency string
}

type Order struct {
	OrderID  string `json:"orderId"`
	PlanID   string `json:"planId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

func (s *CheckoutService) CreateOrder(ctx context.Context, input CreateOrderInput) (Order, error) {
	planID := strings.TrimSpace(input.PlanID)
	if planID == "" {
		return Order{}, invalid("Plan ID is required")
	}
	if input.Amount <= 0 {
		return Order{}, invalid("Amount must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "INR"
	}

	order := Order{
		OrderID:  ids.NewOrderID(),
		PlanID:   planID,
		Amount:   input.Amount,
		Currency: currency,
		KeyID:    s.keyID,
	}

	s.log.Info().
		Str("order_id", order.OrderID).
		Str("plan_id", planID).
		Int64("amount", order.Amount).
		Msg("checkout order created")

	return order, nil
}

type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

func (s *CheckoutService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) error {
	if strings.TrimSpace(input.OrderID) == "" || strings.TrimSpace(input.PaymentID) == "" || strings.TrimSpace(input.Signature) == "" {
		return invalid("Order ID, payment ID and signature are required")
	}

	if !security.ValidatePaymentSignature(s.keySecret, input.OrderID, input.PaymentID, input.Signature) {
		s.log.Warn().Str("order_id", input.OrderID).Str("payment_id", input.PaymentID).Msg("payment signature mismatch")
		return ErrSignatureMismatch
	}

	s.log.Info().Str("order_id", input.OrderID).Str("payment_id", input.PaymentID).Msg("payment verified")
	return nil
}
