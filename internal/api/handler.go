package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/executor"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
	"github.com/rs/zerolog"
)

// Service is the orchestrator surface exposed over HTTP.
type Service interface {
	RunSuite(ctx context.Context, req orchestrator.RunRequest) (models.AggregateReport, error)
	EvaluateCase(ctx context.Context, caseID string) (models.CaseVerdict, error)
	ListCases(tags ...string) []orchestrator.CaseSummary
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Cases   int    `json:"cases"`
}

type Handler struct {
	service Service
	logger  *zerolog.Logger
}

func NewHandler(service Service, logger *zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// POST /api/v1/runs
// Body: RunRequest (optional)
// Returns: AggregateReport
func (h *Handler) RunSuite(req *restful.Request, resp *restful.Response) {
	var runRequest orchestrator.RunRequest
	if err := req.ReadEntity(&runRequest); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Strs("tags", runRequest.Tags).
		Int("runs_count", runRequest.RunsCount).
		Msg("Start suite run")

	report, err := h.service.RunSuite(req.Request.Context(), runRequest)
	switch {
	case errors.Is(err, orchestrator.ErrNoCases), errors.Is(err, orchestrator.ErrUnknownCase):
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	case err != nil:
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("report_id", report.ReportID).
		Float64("suite_pass_rate", report.SuitePassRate).
		Msg("Suite run complete")

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/cases/{case_id}/evaluate
func (h *Handler) EvaluateCase(req *restful.Request, resp *restful.Response) {
	caseID := req.PathParameter("case_id")

	verdict, err := h.service.EvaluateCase(req.Request.Context(), caseID)
	if errors.Is(err, executor.ErrCaseNotFound) {
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}
	if err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("case_id", caseID).
		Float64("score", verdict.Score).
		Bool("passed", verdict.Passed).
		Str("failure_kind", string(verdict.FailureKind)).
		Msg("Case evaluation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, verdict)
}

// GET /api/v1/cases?tags=a,b
func (h *Handler) ListCases(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, h.service.ListCases(parseTags(req.QueryParameter("tags"))...))
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Cases:   len(h.service.ListCases()),
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func parseTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
