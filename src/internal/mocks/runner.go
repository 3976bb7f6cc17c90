package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/maksimkurb/hostconf/src/internal/execrunner"
)

// RunnerCall records one invocation of MockRunner.Run.
type RunnerCall struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// CommandLine returns the call as a single space-separated string.
func (c RunnerCall) CommandLine() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type runnerResponse struct {
	prefix string
	result *execrunner.Result
	err    error
}

// MockRunner is a mock implementation of the execrunner.Runner interface.
//
// This allows testing the syntax checker, the service controller and the apply
// cycle without spawning processes. Responses registered with On are matched
// by command line prefix in registration order; unmatched commands exit 0.
type MockRunner struct {
	// RunFunc is called by Run if not nil, before any registered response
	RunFunc func(ctx context.Context, name string, args []string, timeout time.Duration) (*execrunner.Result, error)

	mu        sync.Mutex
	responses []runnerResponse
	calls     []RunnerCall
}

// NewMockRunner creates a new mock runner where every command succeeds.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// On registers the outcome of commands whose command line starts with prefix.
func (m *MockRunner) On(prefix string, result *execrunner.Result, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, runnerResponse{prefix: prefix, result: result, err: err})
	return m
}

// Run records the call and returns the matching response.
func (m *MockRunner) Run(ctx context.Context, name string, args []string, timeout time.Duration) (*execrunner.Result, error) {
	call := RunnerCall{Name: name, Args: append([]string(nil), args...), Timeout: timeout}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	responses := m.responses
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args, timeout)
	}

	line := call.CommandLine()
	for _, r := range responses {
		if strings.HasPrefix(line, r.prefix) {
			if r.err != nil {
				return nil, r.err
			}
			res := *r.result
			return &res, nil
		}
	}
	return &execrunner.Result{}, nil
}

// Calls returns a copy of all recorded calls.
func (m *MockRunner) Calls() []RunnerCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RunnerCall(nil), m.calls...)
}

// CommandLines returns the recorded calls as command lines.
func (m *MockRunner) CommandLines() []string {
	calls := m.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.CommandLine())
	}
	return lines
}

// Reset forgets recorded calls, keeping registered responses.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
