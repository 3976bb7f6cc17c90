package apply

import (
	"time"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/schema"
)

// State is a step of the apply cycle.
type State string

const (
	StateReceived  State = "received"
	StateValidated State = "validated"
	StateGenerated State = "generated"
	StateStaged    State = "staged"
	StateChecked   State = "checked"
	StateCommitted State = "committed"
	StateReloaded  State = "reloaded"
	StateRejected  State = "rejected"
)

// Outcome is the terminal result of one apply cycle.
type Outcome struct {
	ID    string             `json:"id"`
	Kind  models.ServiceKind `json:"kind"`
	State State              `json:"state"`
	// Trace lists every state the cycle passed through, in order.
	Trace []State `json:"trace"`

	// Reason and Message are set when State is StateRejected.
	Reason  errors.ErrorCode `json:"reason,omitempty"`
	Message string           `json:"message,omitempty"`

	// Noop is set when the generated files already matched the live files.
	Noop        bool                       `json:"noop"`
	Checksum    string                     `json:"checksum,omitempty"`
	Diagnostics schema.Diagnostics         `json:"diagnostics,omitempty"`
	SyntaxCheck *models.SyntaxCheckOutcome `json:"syntaxCheck,omitempty"`
	Status      *models.ServiceStatus      `json:"status,omitempty"`
	Warnings    []string                   `json:"warnings,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	err error
}

// Succeeded reports whether the cycle ended without rejection.
func (o *Outcome) Succeeded() bool {
	return o.State != StateRejected
}

// Committed reports whether the live files hold the submitted configuration,
// which stays true for a cycle rejected by the service manager.
func (o *Outcome) Committed() bool {
	for _, s := range o.Trace {
		if s == StateCommitted {
			return true
		}
	}
	return false
}

// Err returns the error that rejected the cycle, or nil.
func (o *Outcome) Err() error {
	return o.err
}

func (o *Outcome) advance(s State) {
	o.State = s
	o.Trace = append(o.Trace, s)
	logger.Debugf("Apply %s (%s): %s", o.ID, o.Kind, s)
}

func (o *Outcome) reject(err error) {
	o.err = err
	o.Reason = errors.CodeOf(err)
	o.Message = errors.PublicMessage(err)
	o.advance(StateRejected)
}
