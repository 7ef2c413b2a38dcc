package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/crystaldolphin/agentgen/internal/pipeline"
	"github.com/crystaldolphin/agentgen/internal/providers"
)

const (
	msgMissingParams = "Missing required parameters"
	msgInvalidModel  = "Invalid model specified"
	msgInvalidBody   = "Invalid request body"
	msgExecFailed    = "Failed to execute agent"
)

// ExecuteRequest is the body of POST /api/execute-agent and the first
// websocket message. Omitting tools selects the default set.
type ExecuteRequest struct {
	Input  string   `json:"input"`
	Model  string   `json:"model"`
	APIKey string   `json:"apiKey"`
	Tools  []string `json:"tools,omitempty"`
}

func (r ExecuteRequest) missingParams() bool {
	return strings.TrimSpace(r.Input) == "" || strings.TrimSpace(r.Model) == "" || strings.TrimSpace(r.APIKey) == ""
}

func (r ExecuteRequest) toPipeline() pipeline.Request {
	return pipeline.Request{Input: r.Input, Provider: r.Model, APIKey: r.APIKey, Tools: r.Tools}
}

type ExecuteResponse struct {
	Response string `json:"response"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ToolInfo describes one catalog entry.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

func (s *Server) listTools(c echo.Context) error {
	all := s.registry.AllTools()
	infos := make([]ToolInfo, 0, all.Len())
	for _, name := range all.Names() {
		t := all.Get(name)
		infos = append(infos, ToolInfo{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()})
	}
	return c.JSON(http.StatusOK, infos)
}

func (s *Server) executeAgent(c echo.Context) error {
	var req ExecuteRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}
	if req.missingParams() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingParams})
	}

	answer, err := s.runner.Stream(c.Request().Context(), req.toPipeline(), nil)
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("Error executing agent", "err", err)
		}
		return c.JSON(status, ErrorResponse{Error: msg})
	}
	return c.JSON(http.StatusOK, ExecuteResponse{Response: answer})
}

// errorStatus maps a pipeline error to the status and message shown to clients.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, providers.ErrUnknownProvider):
		return http.StatusBadRequest, msgInvalidModel
	case errors.Is(err, providers.ErrMissingAPIKey):
		return http.StatusBadRequest, msgMissingParams
	case errors.Is(err, pipeline.ErrConfig):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, msgExecFailed
	}
}
