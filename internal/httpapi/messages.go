package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pipeline"
	pickschema "github.com/Ducky705/Live-Pick-Scraper/schema"
)

type parseRequest struct {
	Text       string `json:"text"`
	OCRText    string `json:"ocr_text"`
	Channel    string `json:"channel"`
	Author     string `json:"author"`
	OccurredAt string `json:"occurred_at"`
	// Fallback asks for the generative extractor on routed messages.
	Fallback bool `json:"fallback"`
}

func (s *Server) handleParse(c echo.Context) error {
	var req parseRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}
	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.OCRText) == "" {
		return failValidation(c, map[string]string{"text": "text or ocr_text is required"})
	}

	msg := pick.RawMessage{
		ChannelName:       strings.TrimSpace(req.Channel),
		AuthorDisplayName: strings.TrimSpace(req.Author),
		Text:              req.Text,
		OCRText:           req.OCRText,
	}
	if raw := strings.TrimSpace(req.OccurredAt); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return failValidation(c, map[string]string{"occurred_at": "must be RFC3339"})
		}
		msg.OccurredAt = ts.UTC()
	}

	fb := s.fallback
	if !req.Fallback {
		fb = nil
	}
	preview, err := pipeline.PreviewMessage(c.Request().Context(), s.engine, fb, msg)
	if err != nil {
		s.logger.Warn().Err(err).Str("stage", "fallback").Msg("parse preview fallback failed")
		return c.JSON(http.StatusBadGateway, jsendResponse{
			Status:  "error",
			Message: "Fallback extraction failed",
			Code:    http.StatusBadGateway,
			Data:    preview,
		})
	}
	return success(c, preview)
}

func (s *Server) handleIngest(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return failValidation(c, map[string]string{"body": "could not read request body"})
	}
	payload, err := pickschema.ValidateRawMessage(body)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	id, err := s.store.InsertRawMessage(c.Request().Context(), payload.Message())
	if err != nil {
		s.logger.Error().Err(err).Str("source_unique_id", payload.SourceUniqueID).Msg("insert raw message failed")
		return internalError(c, "Failed to store message")
	}

	if id == 0 {
		return success(c, map[string]any{
			"inserted":         false,
			"source_unique_id": payload.SourceUniqueID,
		})
	}
	return successWithStatus(c, http.StatusCreated, map[string]any{
		"inserted":         true,
		"id":               id,
		"source_unique_id": payload.SourceUniqueID,
	})
}

func decodeJSONBody(c echo.Context, dst any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("request body contains trailing content")
	}
	return nil
}
