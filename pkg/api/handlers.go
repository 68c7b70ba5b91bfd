package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hetenyib/qiskit-qec/pkg/buildinfo"
	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
	"github.com/hetenyib/qiskit-qec/pkg/graph"
	"github.com/hetenyib/qiskit-qec/pkg/pipeline"
	"github.com/hetenyib/qiskit-qec/pkg/render"
	"github.com/hetenyib/qiskit-qec/pkg/store"
	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// latticeResponse describes a lattice layout.
type latticeResponse struct {
	Distance    int                `json:"distance"`
	NumQubits   int                `json:"num_qubits"`
	Stabilizers map[string][][]int `json:"stabilizers"`
	Logicals    map[string][][]int `json:"logicals"`
}

func (s *Server) handleLattice(w http.ResponseWriter, r *http.Request) {
	l, err := s.latticeParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := latticeResponse{
		Distance:    l.Distance(),
		NumQubits:   l.NumQubits(),
		Stabilizers: make(map[string][][]int, 2),
		Logicals:    make(map[string][][]int, 2),
	}
	for _, b := range []surface.Basis{surface.BasisZ, surface.BasisX} {
		supports := make([][]int, 0, l.NumStabilizers(b))
		for _, p := range l.Plaquettes(b) {
			supports = append(supports, qubitInts(p.Support()))
		}
		resp.Stabilizers[b.String()] = supports
		resp.Logicals[b.String()] = [][]int{
			qubitInts(l.Logical(b, 0)),
			qubitInts(l.Logical(b, 1)),
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatticeRender(w http.ResponseWriter, r *http.Request) {
	l, err := s.latticeParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	dot := render.LatticeDOT(l, render.Options{Detailed: r.URL.Query().Get("detailed") == "true"})
	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, qecerrors.Wrap(qecerrors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	case "png":
		png, err := render.RenderPNG(r.Context(), dot)
		if err != nil {
			s.writeError(w, qecerrors.Wrap(qecerrors.ErrCodeInternal, err, "render png"))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	default:
		s.writeError(w, qecerrors.New(qecerrors.ErrCodeInvalidInput, "unknown format %q", format))
	}
}

// decodeRequest is the body of POST /v1/decode.
type decodeRequest struct {
	Distance    int    `json:"distance"`
	Rounds      int    `json:"rounds"`
	Basis       string `json:"basis"`
	Resets      bool   `json:"resets"`
	Logical     string `json:"logical"`
	Shot        string `json:"shot"`
	AllLogicals bool   `json:"all_logicals"`
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, qecerrors.Wrap(qecerrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Logical == "" {
		req.Logical = pipeline.DefaultLogical
	}

	basis, err := surface.ParseBasis(req.Basis)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cfg := surface.Config{Distance: req.Distance, Rounds: req.Rounds, Basis: basis, Resets: req.Resets}
	if err := cfg.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	lattice, err := surface.NewLattice(cfg.Distance)
	if err != nil {
		s.writeError(w, err)
		return
	}
	decoder := surface.NewDecoder(lattice, cfg.Basis, cfg.Resets, cfg.Rounds)
	nodes, err := decoder.Nodes(req.Shot, req.Logical, req.AllLogicals)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, graph.New(cfg, req.Logical, nodes))
}

// batchResponse is the body returned by POST /v1/batches.
type batchResponse struct {
	BatchID   string             `json:"batch_id"`
	Shots     []string           `json:"shots"`
	Graphs    []graph.Graph      `json:"graphs"`
	NodeCount int                `json:"node_count"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

// handleBatchCreate runs the full pipeline for the posted options and
// persists the decoded graphs as a new batch.
func (s *Server) handleBatchCreate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, qecerrors.Wrap(qecerrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	batch := store.NewBatch("api run", result.Graphs)
	if err := s.store.Put(r.Context(), batch); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, batchResponse{
		BatchID:   batch.ID,
		Shots:     result.Shots,
		Graphs:    result.Graphs,
		NodeCount: result.NodeCount(),
		CacheInfo: result.CacheInfo,
	})
}

func (s *Server) handleBatchList(w http.ResponseWriter, r *http.Request) {
	batches, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleBatchGet(w http.ResponseWriter, r *http.Request) {
	batch, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleBatchDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// latticeParam parses the {d} route parameter into a lattice.
func (s *Server) latticeParam(r *http.Request) (*surface.Lattice, error) {
	raw := chi.URLParam(r, "d")
	d, err := strconv.Atoi(raw)
	if err != nil {
		return nil, qecerrors.New(qecerrors.ErrCodeInvalidDistance, "distance %q is not a number", raw)
	}
	return surface.NewLattice(d)
}

func qubitInts(qs []surface.Qubit) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = int(q)
	}
	return out
}
