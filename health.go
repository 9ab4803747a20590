package stoploops

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status         string `json:"status"`
	ArchiveEnabled bool   `json:"archive_enabled"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:         "ok",
		ArchiveEnabled: s.archive != nil,
	}
	_ = json.NewEncoder(w).Encode(resp)
}
