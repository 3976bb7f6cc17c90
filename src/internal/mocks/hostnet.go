package mocks

import "github.com/maksimkurb/hostconf/src/internal/hostnet"

// MockInterfaceLister is a mock implementation of the hostnet.Lister interface.
type MockInterfaceLister struct {
	// InterfacesFunc is called by Interfaces if not nil
	InterfacesFunc func() ([]hostnet.Interface, error)

	// Items is returned by Interfaces when InterfacesFunc is nil
	Items []hostnet.Interface

	InterfacesCalls int
}

// NewMockInterfaceLister creates a lister returning the given interfaces.
func NewMockInterfaceLister(items ...hostnet.Interface) *MockInterfaceLister {
	return &MockInterfaceLister{Items: items}
}

// Interfaces returns the configured interfaces.
func (m *MockInterfaceLister) Interfaces() ([]hostnet.Interface, error) {
	m.InterfacesCalls++
	if m.InterfacesFunc != nil {
		return m.InterfacesFunc()
	}
	return m.Items, nil
}
