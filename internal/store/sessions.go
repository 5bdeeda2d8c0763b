package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/evergrowthhq/blueprint-backend/internal/db"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// AttachPaymentIntentParams groups the Stripe and email fields written
// together when a visitor opens checkout for their blueprint.
type AttachPaymentIntentParams struct {
	SessionID           uuid.UUID
	StripeCustomerID    string
	StripePaymentIntent string
	Email               string
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrPaymentIntentAlreadyAttached is returned when the session already carries
// a Stripe PaymentIntent. Recoverable: the checkout handler returns the
// existing PI's client_secret instead of creating a second one.
var ErrPaymentIntentAlreadyAttached = errors.New("store: payment intent already attached to session")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// AttachPaymentIntent writes the Stripe customer ID, PaymentIntent, and buyer
// email onto the session, guarding against double-attachment.
//
// Two tabs opening checkout at once would each create a PI and the later
// write would silently replace the earlier one, leaving an orphaned
// PaymentIntent in Stripe. Under serializable isolation the losing
// transaction re-reads the session, finds the winner's PI, and gets
// ErrPaymentIntentAlreadyAttached with the winning session state so the
// handler can hand back that PI's client_secret.
func (s *Store) AttachPaymentIntent(ctx context.Context, p AttachPaymentIntentParams) (db.Session, error) {
	var session db.Session

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		// The read must happen inside the transaction; a snapshot taken before
		// it would defeat the serializable guard.
		existing, err := q.GetSessionByID(ctx, p.SessionID)
		if err != nil {
			return fmt.Errorf("AttachPaymentIntent: get session: %w", err)
		}

		if existing.StripePaymentIntent.Valid && existing.StripePaymentIntent.String != "" {
			session = existing
			return ErrPaymentIntentAlreadyAttached
		}

		updated, err := q.AttachStripeCustomer(ctx, db.AttachStripeCustomerParams{
			ID: p.SessionID,
			StripeCustomerID: sql.NullString{
				String: p.StripeCustomerID,
				Valid:  p.StripeCustomerID != "",
			},
			StripePaymentIntent: sql.NullString{
				String: p.StripePaymentIntent,
				Valid:  true,
			},
			Email: sql.NullString{
				String: p.Email,
				Valid:  p.Email != "",
			},
		})
		if err != nil {
			return fmt.Errorf("AttachPaymentIntent: attach stripe customer: %w", err)
		}

		session = updated
		return nil
	})

	// Surface the bare sentinel so callers can use errors.Is against an
	// unwrapped value.
	if errors.Is(err, ErrPaymentIntentAlreadyAttached) {
		return session, ErrPaymentIntentAlreadyAttached
	}
	if err != nil {
		return db.Session{}, err
	}

	return session, nil
}
