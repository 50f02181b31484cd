package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/pulseboard-io/pulseboard/engine"
	"github.com/pulseboard-io/pulseboard/helpers"
	"github.com/pulseboard-io/pulseboard/schema"
)

// ============================================================================
// HTTP API — Dataset Upload, Schema, KPIs, Charts
// ============================================================================
// The serving layer owns everything the core does not: dataset lifetime,
// request decoding, and the cache sweep ticker. Handlers stay thin — parse,
// delegate to the engine, encode.
// ============================================================================

// maxUploadBytes caps CSV upload size.
const maxUploadBytes = 64 << 20

// sweepInterval is how often the janitor clears the aggregation cache.
const sweepInterval = 10 * time.Minute

// Server is the pulseboard HTTP API.
type Server struct {
	echo    *echo.Echo
	store   *Store
	engine  *engine.Engine
	janitor *engine.Janitor
}

// New assembles a server with its own store, engine, and cache janitor.
func New() *Server {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	cache := engine.NewCache()
	s := &Server{
		echo:    e,
		store:   NewStore(),
		engine:  engine.New(engine.WithCache(cache)),
		janitor: engine.NewJanitor(cache, sweepInterval),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")
	api.POST("/datasets", s.createDataset)
	api.GET("/datasets", s.listDatasets)
	api.GET("/datasets/:id/schema", s.getSchema)
	api.POST("/datasets/:id/kpis", s.computeKPIs)
	api.POST("/datasets/:id/charts", s.buildCharts)
	api.DELETE("/datasets/:id", s.deleteDataset)
	api.DELETE("/cache", s.clearCache)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start runs the janitor and blocks serving on addr.
func (s *Server) Start(addr string) error {
	s.janitor.Start()
	log.Infof("pulseboard listening on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the janitor and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.janitor.Stop()
	return s.echo.Shutdown(ctx)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) createDataset(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUploadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read upload")
	}

	rows, _, err := helpers.ParseCSV(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sch, err := schema.Infer(rows)
	if err != nil {
		if errors.Is(err, schema.ErrEmptyDataset) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	name := c.QueryParam("name")
	if name == "" {
		name = "dataset"
	}

	ds := s.store.Put(name, rows, sch)
	log.Infof("dataset %s uploaded: %d rows, %d measures, %d dimensions",
		ds.ID, ds.RowCount, len(sch.Measures), len(sch.Dimensions))
	return c.JSON(http.StatusCreated, ds)
}

func (s *Server) listDatasets(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.List())
}

func (s *Server) getSchema(c echo.Context) error {
	ds, ok := s.store.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "dataset not found")
	}
	return c.JSON(http.StatusOK, ds.Schema)
}

func (s *Server) deleteDataset(c echo.Context) error {
	if !s.store.Delete(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "dataset not found")
	}
	// Cached aggregations for the deleted rows are content-keyed and
	// harmless, but drop them eagerly anyway.
	s.engine.ClearCache()
	return c.NoContent(http.StatusNoContent)
}

// kpiRequest is the body of POST /api/datasets/:id/kpis.
type kpiRequest struct {
	KPIs    []engine.KPIDefinition `json:"kpis"`
	Filters engine.FilterSet       `json:"filters"`
	Limit   int                    `json:"limit"`
}

func (s *Server) computeKPIs(c echo.Context) error {
	ds, ok := s.store.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "dataset not found")
	}

	var req kpiRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if len(req.KPIs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no KPI definitions supplied")
	}

	filtered := engine.ApplyFilters(ds.Rows, req.Filters, 0)
	results := s.engine.ComputeKPIs(filtered, req.KPIs, req.Limit)

	return c.JSON(http.StatusOK, map[string]any{
		"kpis":     results,
		"rowCount": len(filtered),
	})
}

// chartRequest is the body of POST /api/datasets/:id/charts.
type chartRequest struct {
	Charts  []engine.ChartDefinition `json:"charts"`
	Filters engine.FilterSet         `json:"filters"`
	Limit   int                      `json:"limit"`
}

func (s *Server) buildCharts(c echo.Context) error {
	ds, ok := s.store.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "dataset not found")
	}

	var req chartRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if len(req.Charts) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no chart definitions supplied")
	}

	filtered := engine.ApplyFilters(ds.Rows, req.Filters, 0)
	charts := s.engine.BuildCharts(filtered, req.Charts, req.Limit)

	return c.JSON(http.StatusOK, map[string]any{
		"charts":   charts,
		"rowCount": len(filtered),
	})
}

func (s *Server) clearCache(c echo.Context) error {
	s.engine.ClearCache()
	return c.NoContent(http.StatusNoContent)
}
