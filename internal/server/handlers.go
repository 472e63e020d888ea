package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tunebridge/internal/acceptance"
	"tunebridge/internal/logging"
	"tunebridge/internal/matching"
	"tunebridge/internal/matchstore"
	"tunebridge/internal/provider"
)

type candidatesResponse struct {
	Track      provider.Track       `json:"track"`
	Candidates []matching.Candidate `json:"candidates"`
	Situation  matching.Situation   `json:"situation"`
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	providerID := r.URL.Query().Get("providerId")
	providerTrackID := r.URL.Query().Get("providerTrackId")
	if providerID == "" || providerTrackID == "" {
		writeError(w, http.StatusBadRequest, "providerId and providerTrackId are required")
		return
	}
	if s.library == nil {
		writeError(w, http.StatusServiceUnavailable, "jellyfin is not configured")
		return
	}

	track, err := s.cache.GetTrackByKey(r.Context(), providerID, providerTrackID)
	if errors.Is(err, provider.ErrNotFound) {
		writeError(w, http.StatusNotFound, acceptance.ReasonProviderTrackNotFound)
		return
	}
	if err != nil {
		s.logger.Error("candidate track lookup failed",
			logging.String(logging.FieldProvider, providerID),
			logging.String(logging.FieldProviderTrackID, providerTrackID),
			logging.Error(err))
		writeError(w, http.StatusInternalServerError, "provider track lookup failed")
		return
	}

	finder := matching.NewFinder(s.library, s.logger, s.cfg.Matching.SearchLimit, s.cfg.Matching.QueryLimit)
	candidates, situation := finder.FindCandidates(r.Context(), track.Metadata(), r.URL.Query().Get("query"))

	writeJSON(w, http.StatusOK, candidatesResponse{
		Track:      *track,
		Candidates: candidates,
		Situation:  situation,
	})
}

type acceptRequest struct {
	Requests []acceptance.Request `json:"requests"`
}

type acceptResponse struct {
	Results   []acceptance.Result `json:"results"`
	Persisted bool                `json:"persisted"`
	Error     string              `json:"error,omitempty"`
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Requests) == 0 {
		writeError(w, http.StatusBadRequest, "requests must not be empty")
		return
	}
	if s.library == nil {
		writeError(w, http.StatusServiceUnavailable, "jellyfin is not configured")
		return
	}

	overrides, verified, ok := s.loadStores(w)
	if !ok {
		return
	}

	level, err := matching.ParseLevel(s.cfg.Matching.Level)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "invalid matching configuration")
		return
	}
	criteria, err := matching.ParseCriteriaList(s.cfg.Matching.Criteria)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "invalid matching configuration")
		return
	}

	workflow := acceptance.New(overrides, verified, s.cache, s.library, level, criteria, s.logger)
	results, err := workflow.AcceptBatch(r.Context(), req.Requests)
	if err != nil {
		s.logger.Error("match batch was not persisted", logging.Error(err))
		writeJSON(w, http.StatusInternalServerError, acceptResponse{
			Results: results,
			Error:   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, acceptResponse{Results: results, Persisted: true})
}

func (s *Server) handleVerifiedList(w http.ResponseWriter, r *http.Request) {
	_, verified, ok := s.loadStores(w)
	if !ok {
		return
	}

	if itemID := r.URL.Query().Get("jellyfinTrackId"); itemID != "" {
		matches := verified.GetByItem(itemID)
		if matches == nil {
			matches = []matchstore.VerifiedMatch{}
		}
		writeJSON(w, http.StatusOK, matches)
		return
	}
	writeJSON(w, http.StatusOK, verified.All())
}

func (s *Server) handleVerifiedRemove(w http.ResponseWriter, r *http.Request) {
	providerID := r.URL.Query().Get("providerId")
	providerTrackID := r.URL.Query().Get("providerTrackId")
	if providerID == "" || providerTrackID == "" {
		writeError(w, http.StatusBadRequest, "providerId and providerTrackId are required")
		return
	}

	_, verified, ok := s.loadStores(w)
	if !ok {
		return
	}

	if !verified.RemoveByKey(providerID, providerTrackID) {
		writeError(w, http.StatusNotFound, "no verified match for the given provider track")
		return
	}
	if err := verified.Save(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist verified matches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Server) handleOverridesList(w http.ResponseWriter, r *http.Request) {
	overrides, _, ok := s.loadStores(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, overrides.All())
}

func (s *Server) handleOverridesRemove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	snapshot := matchstore.TrackSnapshot{
		Name:      query.Get("name"),
		AlbumName: query.Get("albumName"),
		Artists:   splitNames(query.Get("artists")),
	}
	if snapshot.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	overrides, _, ok := s.loadStores(w)
	if !ok {
		return
	}

	if !overrides.RemoveBySnapshot(snapshot) {
		writeError(w, http.StatusNotFound, "no override for the given track")
		return
	}
	if err := overrides.Save(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist manual overrides")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

// loadStores reads both JSON stores fresh for the current request. On failure
// it writes the error response and reports false.
func (s *Server) loadStores(w http.ResponseWriter) (*matchstore.OverrideStore, *matchstore.VerifiedStore, bool) {
	overrides := matchstore.NewOverrideStore(s.cfg.OverridesPath(), s.logger)
	verified := matchstore.NewVerifiedStore(s.cfg.VerifiedPath(), s.logger)
	if err := overrides.Load(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load manual overrides")
		return nil, nil, false
	}
	if err := verified.Load(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load verified matches")
		return nil, nil, false
	}
	return overrides, verified, true
}

func splitNames(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
