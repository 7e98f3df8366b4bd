package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvsguerra/SERD/internal/db"
	"github.com/jvsguerra/SERD/internal/engine"
	"github.com/jvsguerra/SERD/internal/gridbox"
	"github.com/jvsguerra/SERD/internal/pdb"
	"github.com/jvsguerra/SERD/internal/report"
	"github.com/jvsguerra/SERD/internal/surface"
)

// SurfaceRequest is the POST /surface body. Either PDB holds raw PDB text,
// or Atoms (flat 4N xyzr) plus ResidueIDs describe the molecule directly.
type SurfaceRequest struct {
	Name       string    `json:"name"`
	PDB        string    `json:"pdb,omitempty"`
	Atoms      []float64 `json:"atoms,omitempty"`
	ResidueIDs []string  `json:"residue_ids,omitempty"`
	Step       float64   `json:"step,omitempty"`
	Probe      float64   `json:"probe,omitempty"`
	Mode       string    `json:"mode,omitempty"` // "ses" (default) or "sas"
	Align      *bool     `json:"align,omitempty"`
	Workers    int       `json:"workers,omitempty"`
	Record     bool      `json:"record,omitempty"`
}

// SurfaceResponse reports one computation.
type SurfaceResponse struct {
	RunID         string   `json:"run_id,omitempty"`
	Residues      []string `json:"residues"`
	NAtoms        int      `json:"natoms"`
	NX            int      `json:"nx"`
	NY            int      `json:"ny"`
	NZ            int      `json:"nz"`
	SurfacePoints int      `json:"surface_points"`
	DurationMs    float64  `json:"duration_ms"`
}

func (s *Server) handleSurface(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SurfaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	xyzr, ids, err := req.molecule()
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := engine.DefaultParams()
	if req.Step > 0 {
		params.Step = req.Step
	}
	if req.Probe > 0 {
		params.Probe = req.Probe
	}
	switch strings.ToLower(req.Mode) {
	case "", "ses":
		params.SES = true
	case "sas":
		params.SES = false
	default:
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", req.Mode))
		return
	}
	if req.Align != nil {
		params.Align = *req.Align
	}
	params.Workers = req.Workers

	result, err := engine.Run(xyzr, ids, params)
	if err != nil {
		if errors.Is(err, surface.ErrGeometry) || errors.Is(err, surface.ErrAtomShape) || errors.Is(err, gridbox.ErrNoAtoms) {
			s.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("surface computation failed: %v", err))
		return
	}

	resp := SurfaceResponse{
		Residues:      result.Residues,
		NAtoms:        result.NAtoms,
		NX:            result.NX,
		NY:            result.NY,
		NZ:            result.NZ,
		SurfacePoints: result.SurfacePoints,
		DurationMs:    float64(result.Duration.Nanoseconds()) / 1e6,
	}

	if req.Record && s.db != nil {
		run := db.Run{
			RunID:         uuid.NewString(),
			InputName:     req.Name,
			NAtoms:        result.NAtoms,
			NX:            result.NX,
			NY:            result.NY,
			NZ:            result.NZ,
			Step:          params.Step,
			Probe:         params.Probe,
			SurfaceMode:   params.Mode(),
			SurfacePoints: result.SurfacePoints,
			ResidueCount:  len(result.Residues),
			DurationMs:    resp.DurationMs,
			CreatedAt:     time.Now(),
		}
		if err := s.db.RecordRun(run, result.Residues); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to record run: %v", err))
			return
		}
		resp.RunID = run.RunID
	}

	json.NewEncoder(w).Encode(resp)
}

// molecule resolves the request body into the flat atom array and per-atom
// residue ids.
func (req *SurfaceRequest) molecule() ([]float64, []string, error) {
	switch {
	case req.PDB != "" && req.Atoms != nil:
		return nil, nil, errors.New("provide either pdb or atoms, not both")
	case req.PDB != "":
		atoms, err := pdb.ParsePDB(strings.NewReader(req.PDB))
		if err != nil {
			return nil, nil, err
		}
		if len(atoms) == 0 {
			return nil, nil, errors.New("pdb contains no atoms")
		}
		return pdb.XYZR(atoms), pdb.ResidueIDs(atoms), nil
	case req.Atoms != nil:
		if len(req.Atoms)%4 != 0 {
			return nil, nil, fmt.Errorf("atoms length %d not a multiple of 4", len(req.Atoms))
		}
		if len(req.ResidueIDs) != len(req.Atoms)/4 {
			return nil, nil, fmt.Errorf("%d residue ids for %d atoms", len(req.ResidueIDs), len(req.Atoms)/4)
		}
		return req.Atoms, req.ResidueIDs, nil
	default:
		return nil, nil, errors.New("request must carry pdb text or an atoms array")
	}
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeJSONError(w, http.StatusNotFound, "no run store configured")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.db.RunSummaries(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	json.NewEncoder(w).Encode(runs)
}

// RunDetail is one run plus its residues.
type RunDetail struct {
	db.Run
	Residues []string `json:"residues"`
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request, runID string) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeJSONError(w, http.StatusNotFound, "no run store configured")
		return
	}

	run, err := s.db.GetRun(runID)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("run %s not found", runID))
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load run: %v", err))
		return
	}
	residues, err := s.db.RunResidues(runID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load residues: %v", err))
		return
	}
	if residues == nil {
		residues = []string{}
	}
	json.NewEncoder(w).Encode(RunDetail{Run: run, Residues: residues})
}

func (s *Server) runReport(w http.ResponseWriter, r *http.Request, runID string) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeJSONError(w, http.StatusNotFound, "no run store configured")
		return
	}

	run, err := s.db.GetRun(runID)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("run %s not found", runID))
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load run: %v", err))
		return
	}
	residues, err := s.db.RunResidues(runID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load residues: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.WriteRunReport(w, run, residues); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err))
	}
}
