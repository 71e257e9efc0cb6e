package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComputePaymentSignature returns the hex HMAC-SHA256 of "orderID|paymentID",
// the scheme the payment gateway uses to sign checkout callbacks.
func ComputePaymentSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func ValidatePaymentSignature(secret, orderID, paymentID, signature string) bool {
	expected := ComputePaymentSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(strings.ToLower(strings.TrimSpace(signature))), []byte(expected))
}
