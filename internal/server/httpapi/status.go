package httpapi

import "net/http"

type statusResponse struct {
	DB    bool `json:"db"`
	Cache bool `json:"cache"`
}

type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	health := s.status.Health(ctx)
	s.writeJSON(ctx, w, http.StatusOK, statusResponse{DB: health.DB, Cache: health.Cache})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := s.status.Stats(ctx)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, statsResponse{Users: stats.Users, Files: stats.Files})
}
