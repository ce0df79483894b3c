package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/labstack/echo/v4"
)

type IngestRouter struct {
	e      *echo.Echo
	runner ingest.Runner
}

func NewIngestRouter(e *echo.Echo, runner ingest.Runner) *IngestRouter {
	return &IngestRouter{
		e:      e,
		runner: runner,
	}
}

func (r *IngestRouter) Bind() {
	r.e.POST("/ingest", r.ingestHandler)
}

// ingestHandler godoc
// @Summary Run ingestion
// @Description Fetches every provider and reconciles the results. Provider failures are reported in the summary.
// @Tags ingest
// @Produce json
// @Success 200 {object} ingest.Summary
// @Failure 409 {object} map[string]string
// @Router /ingest [post]
func (r *IngestRouter) ingestHandler(c echo.Context) error {
	// the run outlives a disconnected client
	ctx := context.WithoutCancel(c.Request().Context())

	summary, err := r.runner.Run(ctx)
	if errors.Is(err, ingest.ErrRunInProgress) {
		return apperr.NewConflict("An ingestion run is already in progress")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
