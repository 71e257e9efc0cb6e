package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"vastusite/internal/security"
)

func TestCreateOrder(t *testing.T) {
	svc := NewCheckoutService("key_live", "pay-secret", zerolog.Nop())

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{PlanID: "premium", Amount: 499900})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !strings.HasPrefix(order.OrderID, "order_") || order.Currency != "INR" || order.KeyID != "key_live" {
		t.Fatalf("unexpected order %+v", order)
	}

	if _, err := svc.CreateOrder(context.Background(), CreateOrderInput{PlanID: "premium"}); !IsValidation(err) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
	if _, err := svc.CreateOrder(context.Background(), CreateOrderInput{Amount: 1}); !IsValidation(err) {
		t.Fatalf("expected validation error for missing plan, got %v", err)
	}
}

func TestVerifyPayment(t *testing.T) {
	svc := NewCheckoutService("key_live", "pay-secret", zerolog.Nop())
	ctx := context.Background()
	sig := security.ComputePaymentSignature("pay-secret", "order_1", "pay_1")

	if err := svc.VerifyPayment(ctx, VerifyPaymentInput{OrderID: "order_1", PaymentID: "pay_1", Signature: sig}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.VerifyPayment(ctx, VerifyPaymentInput{OrderID: "order_1", PaymentID: "pay_2", Signature: sig}); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
	if err := svc.VerifyPayment(ctx, VerifyPaymentInput{OrderID: "order_1", PaymentID: "pay_1"}); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
