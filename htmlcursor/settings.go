package htmlcursor

import (
	"io"
	"log/slog"
)

// config holds the recognized Settings of spec.md §6, configured via
// functional Option values — the same opts ...Option shape the examples
// pack's XML decoder constructor uses (NewStream(r, tagName, opts
// ...Option) / defaultConfig()).
type config struct {
	closeInput                  bool
	emitHTMLNamespace            bool
	ignoreComments               bool
	ignoreProcessingInstructions bool
	ignoreInsignificantWhitespace bool
	nameTable                   *NameTable
	logger                      *slog.Logger
}

func defaultConfig() *config {
	return &config{
		logger: slog.Default(),
	}
}

// Option configures a Reader at construction time.
type Option func(*config)

// WithCloseInput closes the underlying CharSource on Reader.Close, if it
// implements io.Closer.
func WithCloseInput() Option {
	return func(c *config) { c.closeInput = true }
}

// WithEmitHTMLNamespace makes unprefixed elements resolve to the HTML
// namespace URI instead of the empty string.
func WithEmitHTMLNamespace() Option {
	return func(c *config) { c.emitHTMLNamespace = true }
}

// WithIgnoreComments suppresses Comment nodes before emission.
func WithIgnoreComments() Option {
	return func(c *config) { c.ignoreComments = true }
}

// WithIgnoreProcessingInstructions suppresses ProcessingInstruction nodes.
func WithIgnoreProcessingInstructions() Option {
	return func(c *config) { c.ignoreProcessingInstructions = true }
}

// WithIgnoreInsignificantWhitespace suppresses Whitespace nodes (but not
// SignificantWhitespace nodes).
func WithIgnoreInsignificantWhitespace() Option {
	return func(c *config) { c.ignoreInsignificantWhitespace = true }
}

// WithNameTable configures an interning table shared across prefixes and
// local names.
func WithNameTable(t *NameTable) Option {
	return func(c *config) { c.nameTable = t }
}

// WithLogger wires a structured logger that receives a debug record for each
// node suppressed by one of the ignore options. Tolerated malformations
// (spec.md §7 kind 6) are not logged. Trace calls are gated on the logger's
// handler being enabled for slog.LevelDebug, so the default configuration
// (no logger, or one with debug disabled) costs nothing on the hot path.
// Grounded on the examples pack's generic-carrier logging processor
// (slog.Error/slog.Info with structured key/value pairs).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// discardLogger is used when the caller passes a nil logger explicitly.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
