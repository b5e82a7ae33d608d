package metrics

import coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"

var _ coreport.Metrics = Noop{}

// Noop discards every observation
type Noop struct{}

// WalletOperation implements core.Metrics
func (Noop) WalletOperation(string, string) {}

// ReservationClamped implements core.Metrics
func (Noop) ReservationClamped() {}

// SessionTransition implements core.Metrics
func (Noop) SessionTransition(string, string, string) {}

// SessionsExpired implements core.Metrics
func (Noop) SessionsExpired(int) {}

// ObserveSettlement implements core.Metrics
func (Noop) ObserveSettlement(string, float64, float64) {}
