package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureVerifier checks the HMAC signature the gateway attaches to a
// completed checkout. The signed payload is "<orderID>|<paymentID>" and the
// signature is the lowercase hex HMAC-SHA256 under the gateway key secret.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier builds a verifier bound to the gateway key secret.
func NewSignatureVerifier(keySecret string) (*SignatureVerifier, error) {
	secret := strings.TrimSpace(keySecret)
	if secret == "" {
		return nil, errors.New("payments: key secret is required")
	}
	return &SignatureVerifier{secret: []byte(secret)}, nil
}

// Verify reports whether the supplied signature matches the order and payment
// pair. Comparison is constant time.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	if v == nil || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
