// Package measure populates character widths from an external rendering context.
package measure

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/charfit/internal/model"
)

// ErrUnknownChar is returned when a measurer has no width for a character.
var ErrUnknownChar = errors.New("no width for character")

// Measurer returns the rendered width of a grapheme in pixels.
type Measurer interface {
	Measure(ctx context.Context, ch string) (float64, error)
}

// Pending is a width measurement in flight. It completes exactly once.
type Pending struct {
	done  chan struct{}
	stats []model.CharStat
	err   error
}

// Start measures every pending statistic of a copy of data in the background.
// limit bounds concurrent measurements; limit <= 0 means unbounded.
func Start(ctx context.Context, data []model.CharStat, m Measurer, limit int) *Pending {
	out := make([]model.CharStat, len(data))
	copy(out, data)
	p := &Pending{done: make(chan struct{}), stats: out}

	go func() {
		defer close(p.done)
		g, gctx := errgroup.WithContext(ctx)
		if limit > 0 {
			g.SetLimit(limit)
		}
		for i := range out {
			if out[i].HasWidth() {
				continue
			}
			g.Go(func() error {
				w, err := m.Measure(gctx, out[i].Char)
				if err != nil {
					return fmt.Errorf("failed to measure %q: %w", out[i].Char, err)
				}
				out[i] = out[i].WithWidth(w)
				return nil
			})
		}
		p.err = g.Wait()
	}()
	return p
}

// Done is closed when every width has been measured or a measurement failed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until completion and returns the measured statistics.
func (p *Pending) Wait() ([]model.CharStat, error) {
	<-p.done
	if p.err != nil {
		return nil, p.err
	}
	return p.stats, nil
}

// Populate measures all pending widths and waits for the result.
func Populate(ctx context.Context, data []model.CharStat, m Measurer) ([]model.CharStat, error) {
	return Start(ctx, data, m, 0).Wait()
}
