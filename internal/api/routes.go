package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/runs").
			To(handler.RunSuite).
			Doc("Run the suite, or the selected cases, and return the aggregate report").
			Metadata(restfulspec.KeyOpenAPITags, []string{"runs"}).
			Reads(orchestrator.RunRequest{}).
			Writes(models.AggregateReport{}).
			Returns(200, "OK", models.AggregateReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "No Cases Selected", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/cases").
			To(handler.ListCases).
			Doc("List registered test cases").
			Metadata(restfulspec.KeyOpenAPITags, []string{"cases"}).
			Param(ws.QueryParameter("tags", "Comma separated tags, any of which a case must carry").DataType("string").Required(false)).
			Writes([]orchestrator.CaseSummary{}).
			Returns(200, "OK", []orchestrator.CaseSummary{}))

	ws.
		Route(ws.POST("/cases/{case_id}/evaluate").
			To(handler.EvaluateCase).
			Doc("Evaluate a single registered case once").
			Metadata(restfulspec.KeyOpenAPITags, []string{"cases"}).
			Param(ws.PathParameter("case_id", "Test case identifier").DataType("string")).
			Writes(models.CaseVerdict{}).
			Returns(200, "OK", models.CaseVerdict{}).
			Returns(404, "Case Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}))
}

// RegisterMetrics exposes the gatherer on /metrics.
func RegisterMetrics(container *restful.Container, gatherer prometheus.Gatherer) {
	container.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
