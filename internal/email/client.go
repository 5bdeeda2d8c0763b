// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import "context"

// BlueprintReadyParams holds the data needed to send the blueprint delivery
// email.
type BlueprintReadyParams struct {
	To          string // recipient email address
	OrgName     string // used in the subject line; may be empty
	AccessToken string // opaque token — inserted into the blueprint URL
}

// ReceiptParams holds the data for the post-payment receipt email.
type ReceiptParams struct {
	To          string
	OrgName     string
	AmountCents int64  // e.g. 4900 for $49.00
	Currency    string // e.g. "usd"
}

// Sender is the interface the worker and webhook handler use to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// SendBlueprintReady sends the "your blueprint is ready" email with the
	// access token link. Called by the worker after PersistScoredBlueprint
	// succeeds.
	SendBlueprintReady(ctx context.Context, p BlueprintReadyParams) error

	// SendReceipt sends the payment receipt. Called by the webhook handler
	// immediately after payment confirmation, before the blueprint is
	// generated.
	SendReceipt(ctx context.Context, p ReceiptParams) error
}
