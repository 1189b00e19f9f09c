// Package server exposes capacity calculations over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"github.com/verte-zerg/charfit/internal/calculator"
	"github.com/verte-zerg/charfit/internal/corpus"
	"github.com/verte-zerg/charfit/internal/generic"
	"github.com/verte-zerg/charfit/internal/measure"
	"github.com/verte-zerg/charfit/internal/model"
	"github.com/verte-zerg/charfit/internal/stats"
	"github.com/verte-zerg/charfit/internal/usage"
)

const maxBodyBytes = 8 << 20

// Options configures a Server.
type Options struct {
	Logger   *slog.Logger
	Counter  usage.Counter
	Measurer measure.Measurer
	Locale   language.Tag
	Registry *prometheus.Registry
}

// Server handles HTTP requests. Every request runs in its own calculator session.
type Server struct {
	log      *slog.Logger
	counter  usage.Counter
	measurer measure.Measurer
	locale   language.Tag
	generic  []generic.Entry
	registry *prometheus.Registry
	metrics  *metrics
}

// New builds a server and loads the generic frequency table.
func New(opts Options) (*Server, error) {
	table, err := generic.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load generic table: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		log:      log,
		counter:  opts.Counter,
		measurer: opts.Measurer,
		locale:   opts.Locale,
		generic:  table,
		registry: reg,
		metrics:  newMetrics(reg),
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/analyze", s.instrument("analyze", s.handleAnalyze))
	mux.Handle("POST /v1/capacity", s.instrument("capacity", s.handleCapacity))
	mux.Handle("GET /v1/usage", s.instrument("usage", s.handleUsage))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("server shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

type filtersRequest struct {
	IgnoreCapitals bool  `json:"ignore_capitals"`
	IgnoreNumbers  bool  `json:"ignore_numbers"`
	IgnoreSymbols  bool  `json:"ignore_symbols"`
	IgnoreSpaces   bool  `json:"ignore_spaces"`
	Reduce         *bool `json:"reduce"`
}

func (f filtersRequest) config() model.FilterConfig {
	cfg := model.DefaultFilterConfig().
		WithIgnoreCapitals(f.IgnoreCapitals).
		WithIgnoreNumbers(f.IgnoreNumbers).
		WithIgnoreSymbols(f.IgnoreSymbols).
		WithIgnoreSpaces(f.IgnoreSpaces)
	if f.Reduce != nil {
		cfg = cfg.WithReduceByTenPercent(*f.Reduce)
	}
	return cfg
}

type localizationRequest struct {
	Enabled      bool     `json:"enabled"`
	GenericRates bool     `json:"generic_rates"`
	GenericRate  *float64 `json:"generic_rate"`
}

type datasetRequest struct {
	Corpus       json.RawMessage            `json:"corpus"`
	Generic      bool                       `json:"generic"`
	Filters      filtersRequest             `json:"filters"`
	Languages    map[string]json.RawMessage `json:"languages"`
	Localization localizationRequest        `json:"localization"`
	Sort         string                     `json:"sort"`
	Dir          string                     `json:"dir"`
}

type capacityRequest struct {
	datasetRequest
	ElementWidth float64            `json:"element_width"`
	Widths       map[string]float64 `json:"widths"`
	DefaultWidth *float64           `json:"default_width"`
}

type charJSON struct {
	Char      string   `json:"char"`
	Count     *int     `json:"count,omitempty"`
	Frequency float64  `json:"frequency"`
	Width     *float64 `json:"width,omitempty"`
}

type languageJSON struct {
	Code          string  `json:"code"`
	AverageLength float64 `json:"average_length"`
	ExpansionRate float64 `json:"expansion_rate"`
	Chars         int     `json:"chars"`
}

type analyzeResponse struct {
	Mode       string         `json:"mode"`
	Characters []charJSON     `json:"characters"`
	Languages  []languageJSON `json:"languages,omitempty"`
}

type capacityResponse struct {
	MaxCharLength         int        `json:"max_char_length"`
	ReducedMaxCharLength  *int       `json:"reduced_max_char_length,omitempty"`
	AdjustedMaxCharLength *int       `json:"adjusted_max_char_length,omitempty"`
	TotalFrequencyWidth   float64    `json:"total_frequency_width"`
	ExpansionRate         float64    `json:"expansion_rate,omitempty"`
	Recommended           int        `json:"recommended"`
	UsageCount            int64      `json:"usage_count"`
	Characters            []charJSON `json:"characters"`
}

// errBadRequest marks client input errors.
var errBadRequest = errors.New("invalid request")

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) error {
	var req datasetRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	sess, err := s.prepare(req, nil)
	if err != nil {
		return err
	}
	data, err := ranked(sess, req.Sort, req.Dir)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Mode:       sess.Mode().String(),
		Characters: charsJSON(data),
		Languages:  languagesJSON(sess.Localization()),
	})
	return nil
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) error {
	var req capacityRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	if req.ElementWidth <= 0 {
		return fmt.Errorf("%w: element_width must be > 0", errBadRequest)
	}
	m := s.measurer
	if len(req.Widths) > 0 || req.DefaultWidth != nil {
		m = measure.NewTableMeasurer(req.Widths, req.DefaultWidth)
	}
	if m == nil {
		return fmt.Errorf("%w: widths are required", errBadRequest)
	}
	sess, err := s.prepare(req.datasetRequest, m)
	if err != nil {
		return err
	}
	if err := sess.SetElementWidth(req.ElementWidth); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if err := sess.MeasureWidths(r.Context()); err != nil {
		return err
	}
	res, ready, err := sess.Calculate()
	if err != nil {
		return err
	}
	if !ready {
		return stats.ErrNotReady
	}
	count := sess.Complete(r.Context())
	s.metrics.calculations.WithLabelValues(sess.Mode().String()).Inc()
	s.metrics.usage.Set(float64(count))

	data, err := ranked(sess, req.Sort, req.Dir)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, capacityResponse{
		MaxCharLength:         res.MaxCharLength,
		ReducedMaxCharLength:  res.ReducedMaxCharLength,
		AdjustedMaxCharLength: res.AdjustedMaxCharLength,
		TotalFrequencyWidth:   res.TotalFrequencyWidth,
		ExpansionRate:         res.ExpansionRate,
		Recommended:           res.Effective(),
		UsageCount:            count,
		Characters:            charsJSON(data),
	})
	return nil
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) error {
	if s.counter == nil {
		writeJSON(w, http.StatusOK, map[string]int64{"count": 0})
		return nil
	}
	count, err := s.counter.Read(r.Context())
	if err != nil {
		return err
	}
	s.metrics.usage.Set(float64(count))
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
	return nil
}

// prepare builds an isolated session from a request body.
func (s *Server) prepare(req datasetRequest, m measure.Measurer) (*calculator.Session, error) {
	opts := []calculator.Option{
		calculator.WithLogger(s.log),
		calculator.WithTracker(usage.NewTracker(s.counter, s.log)),
		calculator.WithLocale(s.locale),
	}
	if m != nil {
		opts = append(opts, calculator.WithMeasurer(m))
	}
	sess := calculator.NewSession(opts...)
	sess.SetFilters(req.Filters.config())

	if req.Generic {
		if err := sess.ProcessGeneric(s.generic); err != nil {
			return nil, err
		}
	} else {
		if len(req.Corpus) == 0 {
			return nil, fmt.Errorf("%w: corpus is required unless generic is set", errBadRequest)
		}
		c, err := corpus.ParseJSON(req.Corpus)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		if err := sess.ProcessDataset(c); err != nil {
			return nil, err
		}
	}

	codes := make([]string, 0, len(req.Languages))
	for code := range req.Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		c, err := corpus.ParseJSON(req.Languages[code])
		if err != nil {
			return nil, fmt.Errorf("%w: language %s: %w", errBadRequest, code, err)
		}
		if err := sess.AddLanguage(code, c); err != nil {
			return nil, err
		}
	}

	sess.SetLocalizationEnabled(req.Localization.Enabled)
	if req.Localization.GenericRates {
		sess.SetUseGenericRates(true)
	}
	if req.Localization.GenericRate != nil {
		if err := sess.SetGenericExpansionRate(*req.Localization.GenericRate); err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
	}
	return sess, nil
}

func ranked(sess *calculator.Session, sortField, dir string) ([]model.CharStat, error) {
	field := stats.SortFrequency
	direction := stats.SortDesc
	if sortField != "" {
		f, err := stats.ParseSortField(sortField)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		field = f
	}
	if dir != "" {
		d, err := stats.ParseSortDirection(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		direction = d
	}
	return sess.Ranked(field, direction), nil
}

func charsJSON(data []model.CharStat) []charJSON {
	out := make([]charJSON, 0, len(data))
	for _, d := range data {
		c := charJSON{Char: d.Char, Frequency: d.Frequency}
		if d.Counted {
			count := d.Count
			c.Count = &count
		}
		if d.HasWidth() {
			width := d.Width
			c.Width = &width
		}
		out = append(out, c)
	}
	return out
}

func languagesJSON(l model.LocalizationSettings) []languageJSON {
	out := make([]languageJSON, 0, len(l.Languages))
	for _, lang := range l.Languages {
		out = append(out, languageJSON{
			Code:          lang.Code,
			AverageLength: lang.AverageLength,
			ExpansionRate: lang.ExpansionRate,
			Chars:         len(lang.CharacterData),
		})
	}
	return out
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent.
		_ = err
	}
}
