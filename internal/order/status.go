// Package order projects raw order statuses into the 3-stage display
// lifecycle used by progress UIs.
package order

import "github.com/immflyretail/inseat-commerce/internal/domain"

// Stage is the position of an order within the display lifecycle.
type Stage int

const (
	StagePlaced Stage = iota
	StagePreparing
	StageDelivered
)

// Outcome distinguishes how an order reached the terminal stage.
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	OutcomeCancelled
	OutcomeRefunded
)

// DisplayStatus is the user-facing projection of a raw order status.
// Outcome is meaningful only when Stage is StageDelivered.
type DisplayStatus struct {
	Stage   Stage
	Outcome Outcome
}

// Display stage values.
var (
	Placed    = DisplayStatus{Stage: StagePlaced}
	Preparing = DisplayStatus{Stage: StagePreparing}
	Delivered = DisplayStatus{Stage: StageDelivered, Outcome: OutcomeDelivered}
	Cancelled = DisplayStatus{Stage: StageDelivered, Outcome: OutcomeCancelled}
	Refunded  = DisplayStatus{Stage: StageDelivered, Outcome: OutcomeRefunded}
)

// Classify maps a raw order status to its display status. The mapping is
// total: every raw status yields exactly one display status, and a value
// this build does not recognize maps to Placed with known=false so callers
// can log a forward-compatibility event instead of crashing.
func Classify(raw domain.RawStatus) (status DisplayStatus, known bool) {
	switch raw {
	case domain.OrderPlaced, domain.OrderReceived:
		return Placed, true
	case domain.OrderPreparing:
		return Preparing, true
	case domain.OrderCancelledByCrew, domain.OrderCancelledByPassenger, domain.OrderCancelledByTimeout:
		return Cancelled, true
	case domain.OrderCompleted:
		return Delivered, true
	case domain.OrderRefunded:
		return Refunded, true
	default:
		return Placed, false
	}
}

// SortedStages returns the three ordered stages for progress rendering.
// The terminal slot is Delivered unless the status itself is terminal, in
// which case its own variant substitutes.
func SortedStages(status DisplayStatus) [3]DisplayStatus {
	terminal := Delivered
	if status.Stage == StageDelivered {
		terminal = status
	}
	return [3]DisplayStatus{Placed, Preparing, terminal}
}

// CurrentIndex returns the index of the status within its own sorted stages.
func CurrentIndex(status DisplayStatus) int {
	switch status.Stage {
	case StagePlaced:
		return 0
	case StagePreparing:
		return 1
	default:
		return 2
	}
}

// CanCancel reports whether cancellation is still permitted. This is the
// UI-affordance policy: orders can only be cancelled while still placed.
func CanCancel(raw domain.RawStatus) bool {
	status, _ := Classify(raw)
	return status == Placed
}
