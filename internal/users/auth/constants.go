// Copyright (c) 2026 Souqly. All rights reserved.

package auth

import "time"

// # Recovery Constraints

const (
	// ResetCodeTTL is how long the emailed 6-digit code remains redeemable.
	// Tighter than the reset token itself: the code is the weaker secret.
	ResetCodeTTL = 10 * time.Minute

	// ResetMailSubject is the subject line of the recovery mail.
	ResetMailSubject = "Your password reset code (valid for 10 min)"

	// PasswordMinLen is the minimum accepted password length.
	PasswordMinLen = 8
)
