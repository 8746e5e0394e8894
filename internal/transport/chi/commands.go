package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
)

// Classifier is the built-in command interpreter served at POST /api/command.
type Classifier interface {
	Classify(ctx context.Context, text string) (command.Classification, error)
}

// DispatchCommand handles POST /api/v1/commands. Failures carry the status
// text the records screen shows alongside the error.
func (s *Server) DispatchCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	out, err := s.dispatcher.Dispatch(r.Context(), req.Command, command.ParseSource(req.Source))
	if err != nil {
		s.handleCommandError(w, r, err, out.Status)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CommandState handles GET /api/v1/commands/state.
func (s *Server) CommandState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.State())
}

// InterpretCommand handles POST /api/command with the built-in interpreter.
func (s *Server) InterpretCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	cls, err := s.interpreter.Classify(r.Context(), req.Command)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cls)
}

func (s *Server) handleCommandError(w http.ResponseWriter, r *http.Request, err error, status string) {
	var (
		httpStatus = http.StatusInternalServerError
		code       = CodeInternalError
	)
	switch {
	case errors.Is(err, domain.ErrEmptyCommand):
		httpStatus, code = http.StatusBadRequest, CodeEmptyCommand
	case errors.Is(err, domain.ErrCommandInFlight):
		httpStatus, code = http.StatusConflict, CodeCommandInFlight
	case errors.Is(err, domain.ErrInterpreterUnavailable):
		httpStatus, code = http.StatusBadGateway, CodeInterpreterUnavailable
	}
	if httpStatus == http.StatusInternalServerError {
		s.requestLogger(r).Error("command failed", zap.Error(err))
	}

	msg := status
	if msg == "" {
		msg = safeDomainMessage(err)
	}
	writeJSON(w, httpStatus, ErrorResponse{
		Code:    code,
		Message: msg,
		Status:  status,
	})
}
