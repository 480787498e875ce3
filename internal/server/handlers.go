package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/history"
	"github.com/evoviz/phylosim/pkg/insight"
	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/phylo/stats"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

// simulateRequest is the POST /api/simulate body. It mirrors the
// JSON-serializable subset of pipeline.Options.
type simulateRequest struct {
	Taxa        []string `json:"taxa"`
	Policy      string   `json:"policy,omitempty"`
	KMin        int      `json:"k_min,omitempty"`
	KMax        int      `json:"k_max,omitempty"`
	MutationMin float64  `json:"mutation_min,omitempty"`
	MutationMax float64  `json:"mutation_max,omitempty"`
	Seed        uint64   `json:"seed,omitempty"`
}

// simulateResponse summarizes a completed run. Artifacts are fetched
// separately via the artifact endpoint so responses stay small.
type simulateResponse struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Tree      phylo.TreeDoc   `json:"tree"`
	Summary   stats.Summary   `json:"summary"`
	Insight   insight.Insight `json:"insight"`
	Stats     statsResponse   `json:"stats"`
}

type statsResponse struct {
	NodeCount      int    `json:"node_count"`
	LeafCount      int    `json:"leaf_count"`
	GenerateTimeMS int64  `json:"generate_time_ms"`
	CacheHits      int    `json:"cache_hits"`
	CacheMisses    int    `json:"cache_misses"`
	TreeHash       string `json:"tree_hash"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	opts := pipeline.Options{
		Taxa:        req.Taxa,
		Policy:      req.Policy,
		KMin:        req.KMin,
		KMax:        req.KMax,
		MutationMin: req.MutationMin,
		MutationMax: req.MutationMax,
		Seed:        req.Seed,
		Formats:     []string{pipeline.FormatJSON},
		Logger:      s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := history.NewRecord(sessionID(r.Context()), opts.SimOptions(), result.Tree, result.Summary)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("simulation complete",
		"id", rec.ID,
		"taxa", len(req.Taxa),
		"nodes", result.Stats.NodeCount)

	writeJSON(w, http.StatusCreated, simulateResponse{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Tree:      rec.Tree,
		Summary:   result.Summary,
		Insight:   result.Insight,
		Stats: statsResponse{
			NodeCount:      result.Stats.NodeCount,
			LeafCount:      result.Stats.LeafCount,
			GenerateTimeMS: result.Stats.GenerateTime.Milliseconds(),
			CacheHits:      result.CacheInfo.Hits,
			CacheMisses:    result.CacheInfo.Misses,
			TreeHash:       result.TreeHash,
		},
	})
}

// listItem is the compact history listing entry.
type listItem struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Taxa      []string      `json:"taxa"`
	Summary   stats.Summary `json:"summary"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), sessionID(r.Context()), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	items := make([]listItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, listItem{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			Taxa:      rec.Options.Taxa,
			Summary:   rec.Summary,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"simulations": items})
}

// loadRecord fetches a history record and rejects access from foreign
// sessions with a not-found rather than leaking existence.
func (s *Server) loadRecord(r *http.Request) (*history.Record, error) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec.SessionID != sessionID(r.Context()) {
		return nil, errors.New(errors.ErrCodeSimulationNotFound, "simulation not found: %s", id)
	}
	return rec, nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadRecord(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadRecord(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, err := phylo.FromDoc(rec.Tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ins, err := insight.FromTree(tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      rec.ID,
		"summary": rec.Summary,
		"insight": ins,
	})
}

// artifactContentTypes maps render formats to response content types.
var artifactContentTypes = map[string]string{
	pipeline.FormatNewick:  "text/plain; charset=utf-8",
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatBar:     "image/svg+xml",
	pipeline.FormatHeatmap: "image/svg+xml",
	pipeline.FormatPie:     "image/svg+xml",
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.loadRecord(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, err := phylo.FromDoc(rec.Tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Taxa:       rec.Options.Taxa,
		Formats:    []string{format},
		EdgeLabels: r.URL.Query().Get("edge_labels") == "true",
		Detailed:   r.URL.Query().Get("detailed") == "true",
		Logger:     s.logger,
	}
	artifacts, err := s.runner.Render(r.Context(), tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifactContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
