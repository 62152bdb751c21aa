// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth

import (
	"context"
	"log/slog"
)

// # Confirmation Delivery

// Notifier defines the contract for delivering confirmation codes to
// account holders.
//
// # Why an interface?
//
// The signup flow must never block on a concrete mail provider. Production
// wires an email gateway; tests and local development inject lightweight
// substitutes that capture or log the code.
type Notifier interface {

	/*
		SendConfirmation delivers a plain-text confirmation code to the
		account holder's email address.

		Parameters:
		  - context: context.Context
		  - email: string (Destination address)
		  - username: string (Account the code belongs to)
		  - code: string (Plain confirmation code)

		Returns:
		  - error: Delivery failures
	*/
	SendConfirmation(context context.Context, email, username, code string) error
}

// LogNotifier writes confirmation codes to the structured log instead of
// sending email. Intended for local development only.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a [LogNotifier] backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendConfirmation implements [Notifier] by logging the code.
func (notifier *LogNotifier) SendConfirmation(context context.Context, email, username, code string) error {
	notifier.logger.InfoContext(context, "confirmation_code_issued",
		slog.String("email", email),
		slog.String("username", username),
		slog.String("code", code),
	)
	return nil
}
