package core

// Metrics records domain counters. Implementations must be safe for concurrent use.
type Metrics interface {
	// WalletOperation counts a wallet service call by operation and outcome ("ok" or an error kind)
	WalletOperation(operation, outcome string)
	// ReservationClamped counts finalize calls whose stored earmark was smaller than the released amount
	ReservationClamped()
	// SessionTransition counts a session status change
	SessionTransition(activity, from, to string)
	// SessionsExpired counts sessions closed by the stale-session sweeper
	SessionsExpired(count int)
	// ObserveSettlement records charged and refunded amounts of a settled session
	ObserveSettlement(activity string, charged, refunded float64)
}
