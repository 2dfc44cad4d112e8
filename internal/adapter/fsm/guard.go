package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/ferrowork/recordstate/internal/domain"
)

// Compile-time check: Guard implements domain.TransitionGuard.
var _ domain.TransitionGuard = (*Guard)(nil)

// events holds the looplab/fsm EventDesc list for each registered resource
// type. Descriptors express the graph as state → allowed next states, so we
// synthesize one event per destination state and group all its sources into
// a single EventDesc (e.g. "enter:lost" from "lead", "viewing" and "offer").
var events = buildEvents()

func buildEvents() map[domain.ResourceType][]loopfsm.EventDesc {
	out := make(map[domain.ResourceType][]loopfsm.EventDesc, len(domain.Resources))
	for rt, desc := range domain.Resources {
		grouped := make(map[domain.Status][]string)
		var order []domain.Status

		for from, tos := range desc.Transitions {
			for _, to := range tos {
				if _, exists := grouped[to]; !exists {
					order = append(order, to)
				}
				grouped[to] = append(grouped[to], string(from))
			}
		}

		descs := make([]loopfsm.EventDesc, 0, len(order))
		for _, to := range order {
			descs = append(descs, loopfsm.EventDesc{
				Name: eventName(to),
				Src:  grouped[to],
				Dst:  string(to),
			})
		}
		out[rt] = descs
	}
	return out
}

func eventName(to domain.Status) string {
	return "enter:" + string(to)
}

// Guard implements the transition guard using looplab/fsm. A short-lived
// FSM instance is created per Check call, initialized with the record's
// current state, because looplab/fsm tracks the current state internally.
type Guard struct{}

// New creates a new FSM-backed transition guard.
func New() *Guard {
	return &Guard{}
}

// Check returns nil when the descriptor's table allows moving from one
// state to the other, and a domain.TransitionError otherwise. A state with
// no outgoing edges rejects every destination.
func (g *Guard) Check(ctx context.Context, desc domain.ResourceDescriptor, from, to domain.Status) error {
	machine := loopfsm.NewFSM(string(from), events[desc.Type], nil)

	if err := machine.Event(ctx, eventName(to)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return &domain.TransitionError{Type: desc.Type, From: from, To: to}
		}
		return err
	}

	return nil
}
