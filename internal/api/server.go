// Package api exposes the file decoders over HTTP. One endpoint
// accepts a file path and kind and returns the same summary the CLI
// prints as JSON.
package api

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/qchemtools/diracinspect/internal/logger"
	"github.com/qchemtools/diracinspect/internal/report"
	"github.com/qchemtools/diracinspect/pkg/mdcint"
	"github.com/qchemtools/diracinspect/pkg/mdprop"
	"github.com/qchemtools/diracinspect/pkg/mrconee"
)

// File kinds accepted by the inspect endpoint.
const (
	KindHeader      = "header"
	KindProperties  = "properties"
	KindTwoElectron = "twoelectron"
)

type Server struct {
	log   logger.Logger
	clock func() time.Time
}

func NewServer(log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{log: log, clock: time.Now}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/inspect", s.handleInspect)
}

// InspectRequest selects a file to decode. NumSpinors is required for
// property files, whose matrix dimension is not self-describing.
type InspectRequest struct {
	Path       string `json:"path"`
	Kind       string `json:"kind"`
	NumSpinors int    `json:"num_spinors,omitempty"`
}

// InspectResponse carries the decoded summary. Exactly one of the
// summary fields is set, matching the requested kind.
type InspectResponse struct {
	ID          string                     `json:"id"`
	Kind        string                     `json:"kind"`
	Path        string                     `json:"path"`
	CreatedAt   int64                      `json:"created_at"`
	Header      *report.HeaderSummary      `json:"header,omitempty"`
	Properties  []report.PropertySummary   `json:"properties,omitempty"`
	TwoElectron *report.TwoElectronSummary `json:"two_electron,omitempty"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInspect(c *echo.Context) error {
	req, err := decodeJSON[InspectRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Path == "" {
		return writeBadRequest(c, "path is required")
	}

	resp := InspectResponse{
		ID:        "insp_" + uuid.NewString(),
		Kind:      req.Kind,
		Path:      req.Path,
		CreatedAt: s.clock().Unix(),
	}
	switch req.Kind {
	case KindHeader:
		d, err := mrconee.Read(req.Path)
		if err != nil {
			return writeDecodeFailure(c, err)
		}
		sum := report.NewHeaderSummary(d)
		resp.Header = &sum
	case KindProperties:
		if req.NumSpinors <= 0 {
			return writeBadRequest(c, "num_spinors is required for property files")
		}
		ops, err := mdprop.Read(req.Path, req.NumSpinors)
		if err != nil {
			return writeDecodeFailure(c, err)
		}
		resp.Properties = report.NewPropertySummaries(ops)
	case KindTwoElectron:
		d, err := mdcint.Read(req.Path)
		if err != nil {
			return writeDecodeFailure(c, err)
		}
		sum := report.NewTwoElectronSummary(d)
		resp.TwoElectron = &sum
	default:
		return writeBadRequest(c, "kind must be header, properties or twoelectron")
	}

	s.log.Info("inspected file", "id", resp.ID, "kind", resp.Kind, "path", resp.Path)
	return c.JSON(http.StatusOK, resp)
}

func writeDecodeFailure(c *echo.Context, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return writeNotFound(c, err.Error())
	}
	return writeError(c, http.StatusUnprocessableEntity, "decode_error", err.Error())
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
