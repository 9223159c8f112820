package docx

import "go.uber.org/zap"

// ResolveObserver receives diagnostics from style resolution. Malformed
// style tables (dangling basedOn links, inheritance cycles, references to
// styles that were never defined) are not errors - resolution degrades and
// keeps going - but callers usually want to know. Keeping the reporting
// behind an interface keeps the resolver itself free of logging side
// effects and lets tests run silent.
type ResolveObserver interface {
	// StyleCycle fires when walking a basedOn chain revisits styleID. The
	// chain is truncated at that point.
	StyleCycle(styleID string)
	// MissingBasedOn fires when styleID names a basedOn parent that does
	// not exist. The chain stops as if the style had no parent.
	MissingBasedOn(styleID, parentID string)
	// UnknownStyle fires when resolution is requested for an id that is not
	// in the style table at all.
	UnknownStyle(styleID string)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) StyleCycle(string)             {}
func (NopObserver) MissingBasedOn(string, string) {}
func (NopObserver) UnknownStyle(string)           {}

type logObserver struct {
	log *zap.Logger
}

// NewLogObserver returns an observer that reports style anomalies as
// warnings on the supplied logger.
func NewLogObserver(log *zap.Logger) ResolveObserver {
	return &logObserver{log: log}
}

func (o *logObserver) StyleCycle(styleID string) {
	o.log.Warn("Circular style inheritance, truncating chain", zap.String("style", styleID))
}

func (o *logObserver) MissingBasedOn(styleID, parentID string) {
	o.log.Warn("Style based on undefined style", zap.String("style", styleID), zap.String("basedOn", parentID))
}

func (o *logObserver) UnknownStyle(styleID string) {
	o.log.Warn("Reference to undefined style", zap.String("style", styleID))
}
