// Package status holds the order fulfillment state machine. Every persisted
// status change must pass ValidateTransition; writing a status that skipped the
// validator is a bug.
package status

import "fmt"

type Status int

const (
	Pending    Status = 0
	Paid       Status = 1
	Preparing  Status = 2
	Ready      Status = 3
	Delivering Status = 4
	Delivered  Status = 5
	Cancelled  Status = 6
)

var names = map[Status]string{
	Pending:    "pending",
	Paid:       "paid",
	Preparing:  "preparing",
	Ready:      "ready",
	Delivering: "delivering",
	Delivered:  "delivered",
	Cancelled:  "cancelled",
}

// transitions is strictly forward; Delivered and Cancelled are terminal, and
// there is no Cancelled self-loop, which is what keeps stock restoration from
// ever running twice for one order.
var transitions = map[Status][]Status{
	Pending:    {Paid, Cancelled},
	Paid:       {Preparing, Cancelled},
	Preparing:  {Ready},
	Ready:      {Delivering},
	Delivering: {Delivered},
	Delivered:  {},
	Cancelled:  {},
}

func (s Status) Name() string {
	if n, ok := names[s]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func IsTerminal(s Status) bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses returns a copy of the allowed successor set, empty for terminal
// states, nil for unknown statuses.
func NextStatuses(from Status) []Status {
	allowed, ok := transitions[from]
	if !ok {
		return nil
	}
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("status transition not allowed: %s -> %s (allowed: %v)", e.From.Name(), e.To.Name(), e.Allowed)
}

func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to, Allowed: NextStatuses(from)}
	}
	return nil
}
