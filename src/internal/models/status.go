package models

import "time"

// ServiceState is the normalized state of a daemon.
type ServiceState string

const (
	StateRunning ServiceState = "running"
	StateStopped ServiceState = "stopped"
	StateFailed  ServiceState = "failed"
	StateUnknown ServiceState = "unknown"
)

// ServiceAction is a lifecycle command.
type ServiceAction string

const (
	ActionStart   ServiceAction = "start"
	ActionStop    ServiceAction = "stop"
	ActionRestart ServiceAction = "restart"
	ActionReload  ServiceAction = "reload"
	ActionStatus  ServiceAction = "status"
)

// ParseServiceAction validates an action name.
func ParseServiceAction(s string) (ServiceAction, bool) {
	switch ServiceAction(s) {
	case ActionStart, ActionStop, ActionRestart, ActionReload, ActionStatus:
		return ServiceAction(s), true
	}
	return "", false
}

// Mutates reports whether the action changes the daemon's state.
func (a ServiceAction) Mutates() bool {
	return a != ActionStatus
}

// SyntaxCheckOutcome is the result of running a daemon's own configuration checker.
type SyntaxCheckOutcome struct {
	OK          bool      `json:"ok"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
	CheckedAt   time.Time `json:"checkedAt"`
}

// ServiceStatus is recomputed on every query; it is never cached.
type ServiceStatus struct {
	Kind    ServiceKind  `json:"kind"`
	State   ServiceState `json:"state"`
	Message string       `json:"message"`
	// Output is the raw service manager output, kept for operators.
	Output          string              `json:"output,omitempty"`
	LastSyntaxCheck *SyntaxCheckOutcome `json:"lastSyntaxCheck,omitempty"`
	CheckedAt       time.Time           `json:"checkedAt"`
}
