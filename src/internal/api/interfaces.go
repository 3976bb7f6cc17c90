package api

import (
	"net/http"
)

// GetInterfaces returns the network interfaces of the host.
// This endpoint is not cached, so DHCP subnets can be matched against fresh data.
func (h *Handler) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	interfaces, err := h.interfaces.Interfaces()
	if err != nil {
		logger.Errorf("Failed to list interfaces: %v", err)
		WriteInternalError(w, "Failed to get network interfaces")
		return
	}

	writeJSONData(w, InterfacesResponse{Interfaces: interfaces})
}
