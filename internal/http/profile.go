package httpserver

import "net/http"

// downloadState is the download screen, which has no content of its own.
func downloadState() map[string]interface{} {
	return map[string]interface{}{"items": []struct{}{}}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, downloadState())
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.home.ProfileInfo())
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.home.SignOut(r.Context()); err != nil {
		s.logger.WithError(err).Error("sign out failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
