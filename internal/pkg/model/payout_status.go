package model

// PayoutStatus tracks token transfer settlement separately from game
// resolution. A failed payout never reopens a done game.
type PayoutStatus string

const (
	PayoutNone      PayoutStatus = "NONE"
	PayoutPending   PayoutStatus = "PENDING"
	PayoutCompleted PayoutStatus = "COMPLETED"
	PayoutFailed    PayoutStatus = "FAILED"
)
