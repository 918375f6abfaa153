package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mindfiredigital/PivotHead-sub001/config"
	"github.com/mindfiredigital/PivotHead-sub001/engine"
	"github.com/mindfiredigital/PivotHead-sub001/helpers"
	"github.com/mindfiredigital/PivotHead-sub001/profile"
	"github.com/mindfiredigital/PivotHead-sub001/recommend"
	"github.com/mindfiredigital/PivotHead-sub001/sampler"
	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

var errInvalidOption = errors.New("invalid option")

// ============================================================================
// REQUEST TYPES
// ============================================================================

type pivotRequest struct {
	State   schema.State `json:"state"`
	Options buildOptions `json:"options"`
}

type analyzeRequest struct {
	pivotRequest
	ChartType string `json:"chartType"`
}

// buildOptions mirrors engine options. Zero values defer to configuration.
type buildOptions struct {
	Limit        int      `json:"limit"`
	SortBy       string   `json:"sortBy"`
	SortDir      string   `json:"sortDir"`
	RowFilter    []string `json:"rowFilter"`
	ColumnFilter []string `json:"columnFilter"`
	Bins         int      `json:"bins"`
	Aggregate    string   `json:"aggregate"`
	MaxPoints    int      `json:"maxPoints"`
	Method       string   `json:"method"`
	Seed         int64    `json:"seed"`
}

type sampleRequest struct {
	Values    []float64 `json:"values"`
	Labels    []string  `json:"labels"`
	MaxPoints int       `json:"maxPoints"`
	Method    string    `json:"method"`
	Seed      int64     `json:"seed"`
}

// engineOptions layers request options over the configured defaults.
func (s *Server) engineOptions(o buildOptions) ([]engine.Option, error) {
	opts := s.cfg.EngineOptions(s.logger)

	if o.Limit < 0 || o.Bins < 0 || o.MaxPoints < 0 {
		return nil, fmt.Errorf("%w: limit, bins and maxPoints must not be negative", errInvalidOption)
	}
	if o.Limit > 0 {
		opts = append(opts, engine.WithLimit(o.Limit))
	}
	if o.Bins > 0 {
		opts = append(opts, engine.WithBins(o.Bins))
	}

	switch key := engine.SortKey(o.SortBy); key {
	case "":
	case engine.SortByValue, engine.SortByLabel:
		dir := engine.Direction(o.SortDir)
		if dir != "" && dir != engine.Asc && dir != engine.Desc {
			return nil, fmt.Errorf("%w: sortDir %q", errInvalidOption, o.SortDir)
		}
		opts = append(opts, engine.WithSort(key, dir))
	default:
		return nil, fmt.Errorf("%w: sortBy %q", errInvalidOption, o.SortBy)
	}

	switch mode := engine.AggregateMode(o.Aggregate); mode {
	case "":
	case engine.AggregateSum, engine.AggregateAvg:
		opts = append(opts, engine.WithAggregateMode(mode))
	default:
		return nil, fmt.Errorf("%w: aggregate %q", errInvalidOption, o.Aggregate)
	}

	if len(o.RowFilter) > 0 {
		opts = append(opts, engine.WithRowFilter(o.RowFilter...))
	}
	if len(o.ColumnFilter) > 0 {
		opts = append(opts, engine.WithColumnFilter(o.ColumnFilter...))
	}

	if o.MaxPoints > 0 || o.Method != "" || o.Seed != 0 {
		sc, err := s.samplerConfig(o.MaxPoints, o.Method, o.Seed)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithSampler(sc.NewSampler()))
	}
	return opts, nil
}

func (s *Server) samplerConfig(maxPoints int, method string, seed int64) (config.SamplerConfig, error) {
	sc := s.cfg.Sampler
	if maxPoints > 0 {
		sc.MaxPoints = maxPoints
	}
	if method != "" {
		if !sampler.Method(method).Valid() {
			return sc, fmt.Errorf("%w: method %q", errInvalidOption, method)
		}
		sc.Method = method
	}
	if seed != 0 {
		sc.Seed = seed
	}
	return sc, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleProfile(c *gin.Context) {
	var req pivotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	c.JSON(http.StatusOK, profile.Build(req.State, profile.WithLogger(s.logger)))
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req pivotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	p := profile.Build(req.State, profile.WithLogger(s.logger))
	c.JSON(http.StatusOK, gin.H{
		"profile":         p,
		"recommendations": s.recommender.RecommendProfile(p),
	})
}

func (s *Server) handleChartData(c *gin.Context) {
	chartType, err := engine.ParseChartType(c.Param("type"))
	if err != nil {
		badRequest(c, fmt.Errorf("%w: %q", err, c.Param("type")))
		return
	}

	var req pivotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	opts, err := s.engineOptions(req.Options)
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := engine.Build(chartType, engine.InputFromState(req.State, nil), opts...)
	if err != nil {
		badRequest(c, err)
		return
	}

	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		c.JSON(http.StatusOK, result)
	case "table":
		c.JSON(http.StatusOK, engine.BuildTable(result))
	case "text":
		c.JSON(http.StatusOK, engine.BuildText(result))
	case "csv":
		c.Header("Content-Type", "text/csv")
		if err := helpers.WriteCSV(c.Writer, engine.BuildTable(result)); err != nil {
			s.logger.Error("failed to write CSV", zap.Error(err))
		}
	default:
		badRequest(c, fmt.Errorf("%w: format %q", errInvalidOption, format))
	}
}

func (s *Server) handleSample(c *gin.Context) {
	var req sampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	if req.MaxPoints < 0 {
		badRequest(c, fmt.Errorf("%w: maxPoints must not be negative", errInvalidOption))
		return
	}
	sc, err := s.samplerConfig(req.MaxPoints, req.Method, req.Seed)
	if err != nil {
		badRequest(c, err)
		return
	}

	smp := sc.NewSampler()
	resp := gin.H{"method": smp.Config().Method, "maxPoints": smp.Config().MaxPoints}
	if len(req.Labels) > 0 {
		out := sampler.Sample(smp, req.Labels)
		resp["labels"], resp["count"] = out, len(out)
	} else {
		out := sampler.Sample(smp, req.Values)
		if out == nil {
			out = []float64{}
		}
		resp["values"], resp["count"] = out, len(out)
	}
	c.JSON(http.StatusOK, resp)
}

// handleAnalyze ranks chart types and builds the requested chart in parallel.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	if req.ChartType == "" {
		req.ChartType = string(engine.ChartColumn)
	}
	chartType, err := engine.ParseChartType(req.ChartType)
	if err != nil {
		badRequest(c, fmt.Errorf("%w: %q", err, req.ChartType))
		return
	}
	opts, err := s.engineOptions(req.Options)
	if err != nil {
		badRequest(c, err)
		return
	}

	var (
		p      profile.Profile
		recs   recommend.Recommendations
		result *engine.Result
		table  *engine.TableData
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		p = profile.Build(req.State, profile.WithLogger(s.logger))
		recs = s.recommender.RecommendProfile(p)
		return ctx.Err()
	})
	g.Go(func() error {
		var err error
		result, err = engine.Build(chartType, engine.InputFromState(req.State, nil), opts...)
		if err != nil {
			return err
		}
		table = engine.BuildTable(result)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("analyze failed", zap.String("requestId", c.GetString(requestIDKey)), zap.Error(err))
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":         p,
		"recommendations": recs,
		"chart":           result,
		"table":           table,
	})
}

// handleUpload discovers the schema of an uploaded CSV or XLSX file and
// recommends charts for it. Form fields rows, cols and measures are
// comma-separated column names; empty means the suggested layout.
func (s *Server) handleUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, err)
		return
	}

	tbl, err := helpers.ReadBytes(fh.Filename, data)
	if err != nil {
		badRequest(c, err)
		return
	}
	ds, err := helpers.NewDataset(tbl)
	if err != nil {
		badRequest(c, err)
		return
	}
	state, err := ds.State(splitList(c.PostForm("rows")), splitList(c.PostForm("cols")), splitList(c.PostForm("measures")))
	if err != nil {
		badRequest(c, err)
		return
	}

	p := profile.Build(state, profile.WithLogger(s.logger))
	s.logger.Info("dataset uploaded",
		zap.String("requestId", c.GetString(requestIDKey)),
		zap.String("file", fh.Filename),
		zap.Int("records", len(ds.Records)),
	)
	c.JSON(http.StatusOK, gin.H{
		"schema":          ds.Schema,
		"rows":            state.Rows,
		"columns":         state.Columns,
		"measures":        state.Measures,
		"recordCount":     len(ds.Records),
		"profile":         p,
		"recommendations": s.recommender.RecommendProfile(p),
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
