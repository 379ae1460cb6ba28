package models

import (
	"time"

	"github.com/google/uuid"
)

type OTPPurpose string

const (
	OTPPurposeLogin OTPPurpose = "login"
)

type OTPCode struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	Code       string     `db:"code"`
	Purpose    OTPPurpose `db:"purpose"`
	ExpiresAt  time.Time  `db:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// Usable reports whether the code can still be redeemed: not consumed
// and not past its expiry.
func (o *OTPCode) Usable(now time.Time) bool {
	return o.ConsumedAt == nil && now.Before(o.ExpiresAt)
}
