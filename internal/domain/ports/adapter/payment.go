package adapter

import "context"

// CallbackNotification is what the external gateway delivers when a payment
// attempt resolves. Status carries the gateway's own vocabulary; the billing
// engine maps it onto payment states and deduplicates by TransactionRef.
type CallbackNotification struct {
	TransactionRef string
	Status         string
	AmountCents    int64
	Signature      string
}

// PaymentGateway is the hex port for the external payment processor.
type PaymentGateway interface {
	Name() string

	// RequestPayment opens a payment intent and returns the gateway's
	// transaction reference plus a redirect URL for the payer.
	RequestPayment(ctx context.Context, amountCents int64, currency, description, callbackURL string) (transactionRef string, payURL string, err error)

	// VerifyPayment re-queries the gateway for the outcome of an intent.
	// Used by the reconciler when callbacks were lost. Returns the gateway's
	// status vocabulary, same as a callback would carry.
	VerifyPayment(ctx context.Context, transactionRef string, expectedAmountCents int64) (status string, err error)
}
