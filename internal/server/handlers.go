package server

import (
	"encoding/json"
	"net/http"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/buildinfo"
	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
	"github.com/netblend/netblend/pkg/network"
	"github.com/netblend/netblend/pkg/pipeline"
	"github.com/netblend/netblend/pkg/scene"
)

// Request is the body of /v1/layout and /v1/render.
type Request struct {
	Arch        []arch.LayerShape `json:"arch"`
	Activations []json.RawMessage `json:"activations,omitempty"`

	Origin   [3]float64    `json:"origin"`
	Scale    *layout.Scale `json:"scale,omitempty"`
	Radius   float64       `json:"radius,omitempty"`
	Centered *bool         `json:"centered,omitempty"`

	Projection string `json:"projection,omitempty"`
	MeshCells  int    `json:"mesh_cells,omitempty"`
	Detailed   bool   `json:"detailed,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (req Request) options() pipeline.Options {
	return pipeline.Options{
		Config:     &network.Config{Arch: req.Arch, Activations: req.Activations},
		Origin:     req.Origin,
		Scale:      req.Scale,
		Radius:     req.Radius,
		Centered:   req.Centered,
		Projection: req.Projection,
		MeshCells:  req.MeshCells,
		Detailed:   req.Detailed,
		Refresh:    req.Refresh,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx := r.Context()

	n, err := s.runner.Load(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sc, hit, err := s.runner.ComputeSceneWithCacheInfo(ctx, n, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := scene.Marshal(sc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus(hit))
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Disposition", `inline; filename="`+pipeline.FileName("", format)+`"`)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	_, _ = w.Write(result.Artifacts[format])
}

// decode reads the request body into pipeline options, filling unset
// fields from the server defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.GetCode(err) != "" {
			return pipeline.Options{}, err
		}
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}

	opts := req.options()
	opts.MaxNeurons = s.maxNeurons
	if s.defaults != nil {
		s.defaults.Apply(&opts)
	}
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsInputError(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
