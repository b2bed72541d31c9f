package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA256 of message under secret, the scheme the provider uses for
// checkout callbacks and webhook bodies.
func Sign(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckoutSignature signs "<providerOrderID>|<paymentID>".
func CheckoutSignature(secret, providerOrderID, paymentID string) string {
	return Sign(secret, []byte(providerOrderID+"|"+paymentID))
}

func verify(secret string, message []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected, err := hex.DecodeString(Sign(secret, message))
	if err != nil {
		return false
	}
	actual, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, actual)
}

// WebhookVerifier authenticates provider webhook deliveries.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) WebhookVerifier {
	return WebhookVerifier{secret: secret}
}

// Verify checks the X-Razorpay-Signature header value against the raw request body.
func (v WebhookVerifier) Verify(body []byte, signature string) bool {
	return verify(v.secret, body, signature)
}
