package stats

import "errors"

var (
	// ErrEmptyCorpus is returned when no characters survive filtering.
	ErrEmptyCorpus = errors.New("corpus has no characters to analyse")
	// ErrNotReady signals that a capacity calculation lacks inputs. Callers keep prior results.
	ErrNotReady = errors.New("capacity inputs not ready")
	// ErrDegenerateWidth is returned when the frequency-weighted width is zero.
	ErrDegenerateWidth = errors.New("total frequency width is zero")
	// ErrBaseNotProcessed is returned when an expansion rate is requested before the base corpus was analysed.
	ErrBaseNotProcessed = errors.New("base corpus has not been processed")
)
