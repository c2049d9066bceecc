package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// VerifyWebhookSignature checks the HMAC-SHA256 the provider sends with each
// callback: HMAC(secret, transaction_ref + status + amount_cents).
func VerifyWebhookSignature(secret, transactionRef, status string, amountCents int64, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	payload := fmt.Sprintf("%s%s%d", transactionRef, status, amountCents)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	expected := hex.EncodeToString(h.Sum(nil))

	return strings.EqualFold(expected, signature)
}

// SignWebhook produces the signature a provider would attach. Used by the
// sandbox gateway and tests.
func SignWebhook(secret, transactionRef, status string, amountCents int64) string {
	payload := fmt.Sprintf("%s%s%d", transactionRef, status, amountCents)
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
