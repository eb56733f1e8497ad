package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/listing-copywriter/internal/db"
	"github.com/jonathan/listing-copywriter/internal/pipeline"
	"github.com/jonathan/listing-copywriter/internal/scoring"
	"github.com/jonathan/listing-copywriter/internal/types"
)

// OptionsResponse lists the values accepted by the generate endpoints
type OptionsResponse struct {
	PropertyTypes  []types.Option `json:"property_types"`
	Tones          []types.Option `json:"tones"`
	HistoryEnabled bool           `json:"history_enabled"`
}

// ScoreRequest is the body of POST /score
type ScoreRequest struct {
	Description string             `json:"description"`
	Property    types.PropertyData `json:"property"`
}

// ScoreColors holds the display color class of each headline score
type ScoreColors struct {
	Readability string `json:"readability"`
	SEO         string `json:"seo"`
	Overall     string `json:"overall"`
}

// ScoreResponse is a score result plus display colors
type ScoreResponse struct {
	types.ScoreResult
	Colors ScoreColors `json:"colors"`
}

// DescriptionResponse is one stored description with its scores
type DescriptionResponse struct {
	*db.Description
	ShortDescription string        `json:"short_description"`
	Scores           ScoreResponse `json:"scores"`
}

// GenerateResponse is the reply to a generate or regenerate call
type GenerateResponse struct {
	Description DescriptionResponse `json:"description"`
	Saved       bool                `json:"saved"`
}

// HistoryResponse is the reply to GET /descriptions
type HistoryResponse struct {
	Descriptions []DescriptionResponse `json:"descriptions"`
	Count        int                   `json:"count"`
}

// RegenerateRequest is the optional body of POST /descriptions/{id}/regenerate
type RegenerateRequest struct {
	Tone types.Tone `json:"tone"`
}

func newScoreResponse(result types.ScoreResult) ScoreResponse {
	return ScoreResponse{
		ScoreResult: result,
		Colors: ScoreColors{
			Readability: scoring.ScoreColor(result.ReadabilityScore),
			SEO:         scoring.ScoreColor(result.SEOScore),
			Overall:     scoring.ScoreColor(result.OverallScore),
		},
	}
}

func newDescriptionResponse(d *db.Description) DescriptionResponse {
	return DescriptionResponse{
		Description:      d,
		ShortDescription: d.ShortDescription(),
		Scores:           newScoreResponse(d.Scores()),
	}
}

func newGenerateResponse(result *pipeline.Result) GenerateResponse {
	resp := GenerateResponse{Description: newDescriptionResponse(result.Description), Saved: result.Saved}
	resp.Description.Scores = newScoreResponse(result.Scores)
	return resp
}

// decodeJSON decodes a bounded request body. Empty bodies are allowed when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return &ErrBadRequest{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrBadRequest{Message: fmt.Sprintf("invalid description id %q", r.PathValue("id"))}
	}
	return id, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"history_enabled": s.service.HistoryEnabled(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, OptionsResponse{
		PropertyTypes:  types.PropertyTypes(),
		Tones:          types.Tones(),
		HistoryEnabled: s.service.HistoryEnabled(),
	})
}

// handleScore scores arbitrary text without calling the model
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newScoreResponse(s.service.Score(req.Description, req.Property)))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.service.GenerateWithProgress(r.Context(), req, nil)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, newGenerateResponse(result))
}

// handleGenerateStream runs a generation and reports each step as an SSE event
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.service.GenerateWithProgress(r.Context(), req, func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Debug("failed to write progress event", zap.Error(err))
		}
	})
	if err != nil {
		if HTTPStatus(err) >= http.StatusInternalServerError {
			s.logger.Error("streamed generation failed", zap.Error(err))
		}
		sse.WriteError(errorBody(err))
		return
	}
	sse.WriteComplete(newGenerateResponse(result))
}

func (s *Server) handleListDescriptions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorResponse(w, r, &ErrBadRequest{Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.service.History(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	resp := HistoryResponse{Descriptions: make([]DescriptionResponse, 0, len(records)), Count: len(records)}
	for i := range records {
		resp.Descriptions = append(resp.Descriptions, newDescriptionResponse(&records[i]))
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleGetDescription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	record, err := s.service.Load(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newDescriptionResponse(record))
}

func (s *Server) handleDeleteDescription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearDescriptions(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.Clear(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var req RegenerateRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.service.Regenerate(r.Context(), id, req.Tone)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, newGenerateResponse(result))
}
