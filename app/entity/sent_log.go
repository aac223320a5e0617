package entity

import "time"

// SentLog is an append-only record of one application email. The unique key
// on (target_email, sender_email) is what makes redelivered events safe.
type SentLog struct {
	ID          int64
	TargetEmail string
	SenderEmail string
	SentAt      time.Time
}
