// Package calculator drives one end-to-end capacity calculation: dataset
// processing, localization targets, width measurement and the final result.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/verte-zerg/charfit/internal/corpus"
	"github.com/verte-zerg/charfit/internal/generic"
	"github.com/verte-zerg/charfit/internal/measure"
	"github.com/verte-zerg/charfit/internal/model"
	"github.com/verte-zerg/charfit/internal/stats"
	"github.com/verte-zerg/charfit/internal/usage"
)

const defaultMeasureLimit = 8

// Session holds the state of one calculation. It is not safe for concurrent
// use; give every request its own Session.
type Session struct {
	log      *slog.Logger
	tracker  *usage.Tracker
	measurer measure.Measurer
	locale   language.Tag

	elementWidth  float64
	mode          model.DatasetMode
	filters       model.FilterConfig
	base          corpus.Resolved
	baseAverage   float64
	characterData []model.CharStat
	langCorpora   map[string]corpus.Resolved
	localization  model.LocalizationSettings
	result        *model.CapacityResult
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTracker sets the usage tracker notified on Complete.
func WithTracker(t *usage.Tracker) Option {
	return func(s *Session) {
		s.tracker = t
	}
}

// WithMeasurer sets the width measurement collaborator.
func WithMeasurer(m measure.Measurer) Option {
	return func(s *Session) {
		s.measurer = m
	}
}

// WithLocale sets the collation locale used for ranking.
func WithLocale(tag language.Tag) Option {
	return func(s *Session) {
		s.locale = tag
	}
}

// NewSession returns a session with default filters and localization.
func NewSession(opts ...Option) *Session {
	s := &Session{
		log:    slog.Default(),
		locale: language.Und,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = usage.NewTracker(nil, s.log)
	}
	s.resetState()
	return s
}

func (s *Session) resetState() {
	s.elementWidth = 0
	s.mode = model.DatasetCustom
	s.filters = model.DefaultFilterConfig()
	s.base = nil
	s.baseAverage = 0
	s.characterData = nil
	s.langCorpora = map[string]corpus.Resolved{}
	s.localization = model.DefaultLocalizationSettings()
	s.result = nil
}

// Reset clears every input and result. The usage counter is kept.
func (s *Session) Reset() {
	s.resetState()
}

// SetElementWidth sets the pixel budget.
func (s *Session) SetElementWidth(px float64) error {
	if px < 0 {
		return fmt.Errorf("element width must be >= 0")
	}
	s.elementWidth = px
	return nil
}

// ElementWidth returns the pixel budget.
func (s *Session) ElementWidth() float64 {
	return s.elementWidth
}

// SetFilters replaces the filter configuration. It applies to datasets processed afterwards.
func (s *Session) SetFilters(f model.FilterConfig) {
	s.filters = f
}

// Filters returns the filter configuration.
func (s *Session) Filters() model.FilterConfig {
	return s.filters
}

// Mode returns the active dataset mode.
func (s *Session) Mode() model.DatasetMode {
	return s.mode
}

func (s *Session) switchMode(mode model.DatasetMode) {
	s.mode = mode
	s.localization = model.ApplyDatasetMode(mode, s.localization)
}

// ProcessDataset analyses the base corpus and switches to custom mode.
// Existing localization targets are re-derived against the new base.
func (s *Session) ProcessDataset(c corpus.Corpus) error {
	resolved := corpus.Resolve(c)
	data, err := stats.Analyze(corpus.Normalize(resolved, s.filters))
	if err != nil {
		return fmt.Errorf("failed to analyse dataset: %w", err)
	}
	avg, err := stats.AverageLength(resolved)
	if err != nil {
		return fmt.Errorf("failed to analyse dataset: %w", err)
	}
	stats.Sort(data, stats.SortChar, stats.SortAsc, stats.WithLocale(s.locale))

	loc := model.ApplyDatasetMode(model.DatasetCustom, s.localization)
	for _, lang := range s.localization.Languages {
		entry, err := s.languageEntry(lang.Code, avg)
		if err != nil {
			return err
		}
		loc = loc.WithLanguage(entry)
	}

	s.mode = model.DatasetCustom
	s.localization = loc
	s.base = resolved
	s.baseAverage = avg
	s.characterData = data
	s.log.Debug("dataset processed",
		slog.Int("entries", len(resolved)),
		slog.Int("chars", len(data)),
		slog.Float64("average_length", avg),
	)
	return nil
}

// ProcessGeneric loads a generic frequency table and switches to generic mode.
func (s *Session) ProcessGeneric(table []generic.Entry) error {
	if len(table) == 0 {
		return fmt.Errorf("failed to load generic dataset: %w", stats.ErrEmptyCorpus)
	}
	data := stats.Generic(table)
	stats.Sort(data, stats.SortChar, stats.SortAsc, stats.WithLocale(s.locale))
	s.switchMode(model.DatasetGeneric)
	s.base = nil
	s.baseAverage = 0
	s.characterData = data
	s.log.Debug("generic dataset loaded", slog.Int("chars", len(data)))
	return nil
}

// AddLanguage analyses a translated corpus and stores it as a localization
// target. Adding a known code replaces it.
func (s *Session) AddLanguage(code string, c corpus.Corpus) error {
	if code == "" {
		return fmt.Errorf("language code must not be empty")
	}
	s.langCorpora[code] = corpus.Resolve(c)
	if err := s.processLanguage(code); err != nil {
		delete(s.langCorpora, code)
		return err
	}
	return nil
}

func (s *Session) processLanguage(code string) error {
	entry, err := s.languageEntry(code, s.baseAverage)
	if err != nil {
		return err
	}
	s.localization = s.localization.WithLanguage(entry)
	s.log.Debug("language processed",
		slog.String("code", code),
		slog.Bool("processed", entry.Processed),
		slog.Float64("expansion_rate", entry.ExpansionRate),
	)
	return nil
}

// languageEntry derives a localization target against baseAverage. Without a
// base, generic rates stand in and the entry is kept unprocessed.
func (s *Session) languageEntry(code string, baseAverage float64) (model.LanguageEntry, error) {
	resolved, ok := s.langCorpora[code]
	if !ok {
		return model.LanguageEntry{}, fmt.Errorf("language %s has no corpus", code)
	}
	if baseAverage <= 0 {
		if s.localization.UseGenericRates {
			return model.LanguageEntry{Code: code}, nil
		}
		return model.LanguageEntry{}, fmt.Errorf("failed to process language %s: %w", code, stats.ErrBaseNotProcessed)
	}
	entry, err := stats.LanguageStats(code, resolved, baseAverage, s.filters)
	if err != nil {
		return model.LanguageEntry{}, fmt.Errorf("failed to process language: %w", err)
	}
	return entry, nil
}

// RemoveLanguage drops a localization target.
func (s *Session) RemoveLanguage(code string) {
	delete(s.langCorpora, code)
	s.localization = s.localization.WithoutLanguage(code)
}

// SetLocalizationEnabled toggles the expansion adjustment.
func (s *Session) SetLocalizationEnabled(v bool) {
	s.localization = s.localization.WithEnabled(v)
}

// SetUseGenericRates selects the generic rate over per-language rates.
func (s *Session) SetUseGenericRates(v bool) {
	s.localization = s.localization.WithUseGenericRates(v)
}

// SetGenericExpansionRate sets the generic rate. Rates below 1 would turn
// translation into a capacity gain and are rejected.
func (s *Session) SetGenericExpansionRate(rate float64) error {
	if rate < 1 {
		return fmt.Errorf("generic expansion rate must be >= 1, got %.2f", rate)
	}
	s.localization = s.localization.WithGenericExpansionRate(rate)
	return nil
}

// Localization returns the localization settings.
func (s *Session) Localization() model.LocalizationSettings {
	return s.localization
}

// CharacterData returns a copy of the base statistics.
func (s *Session) CharacterData() []model.CharStat {
	out := make([]model.CharStat, len(s.characterData))
	copy(out, s.characterData)
	return out
}

// Ranked returns the base statistics in the requested order.
func (s *Session) Ranked(field stats.SortField, dir stats.SortDirection) []model.CharStat {
	return stats.Sorted(s.characterData, field, dir, stats.WithLocale(s.locale))
}

// StartMeasure begins measuring pending widths. Apply the finished
// measurement with ApplyWidths.
func (s *Session) StartMeasure(ctx context.Context) (*measure.Pending, error) {
	if s.measurer == nil {
		return nil, fmt.Errorf("no width measurer configured")
	}
	return measure.Start(ctx, s.characterData, s.measurer, defaultMeasureLimit), nil
}

// ApplyWidths waits for a measurement and stores its widths.
func (s *Session) ApplyWidths(p *measure.Pending) error {
	data, err := p.Wait()
	if err != nil {
		return fmt.Errorf("failed to measure widths: %w", err)
	}
	s.characterData = data
	return nil
}

// MeasureWidths measures every pending width and waits for completion.
func (s *Session) MeasureWidths(ctx context.Context) error {
	p, err := s.StartMeasure(ctx)
	if err != nil {
		return err
	}
	return s.ApplyWidths(p)
}

// Calculate recomputes the capacity result. When inputs are not ready it
// returns the previous result with ready=false and no error.
func (s *Session) Calculate() (res model.CapacityResult, ready bool, err error) {
	out, err := stats.Capacity(stats.CapacityInput{
		PixelBudget:        s.elementWidth,
		Stats:              s.characterData,
		ReduceByTenPercent: s.filters.ReduceByTenPercent,
		Localization:       s.localization,
	})
	if errors.Is(err, stats.ErrNotReady) {
		prev, _ := s.Result()
		return prev, false, nil
	}
	if err != nil {
		return model.CapacityResult{}, false, fmt.Errorf("failed to calculate capacity: %w", err)
	}
	s.result = &out
	return out, true, nil
}

// Result returns the last successful result.
func (s *Session) Result() (model.CapacityResult, bool) {
	if s.result == nil {
		return model.CapacityResult{}, false
	}
	return *s.result, true
}

// Complete records a finished calculation in the usage counter and returns
// the known usage count. Counter failures are logged and ignored.
func (s *Session) Complete(ctx context.Context) int64 {
	count := s.tracker.Complete(ctx)
	if res, ok := s.Result(); ok {
		s.log.Info("calculation complete",
			slog.String("mode", s.mode.String()),
			slog.Int("max_chars", res.MaxCharLength),
			slog.Int("limit", res.Effective()),
			slog.Int64("usage_count", count),
		)
	}
	return count
}

// UsageCount returns the last known usage count.
func (s *Session) UsageCount() int64 {
	return s.tracker.Local()
}
