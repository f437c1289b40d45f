package writers

import (
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/pkg/redact"
)

// Factory creates writers based on configuration.
type Factory struct {
	out      io.Writer
	errOut   io.Writer
	redactor *redact.Redactor
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithStreams sets the standard and error output of created writers.
func WithStreams(out, errOut io.Writer) FactoryOption {
	return func(f *Factory) {
		f.out = out
		f.errOut = errOut
	}
}

// WithSecrets scrubs the given credentials from all output.
func WithSecrets(secrets ...string) FactoryOption {
	return func(f *Factory) {
		f.redactor = redact.New(redact.WithSecrets(secrets...))
	}
}

// NewFactory creates a new writer factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		out:      os.Stdout,
		errOut:   os.Stderr,
		redactor: redact.New(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a progress writer for the configured format.
func (f *Factory) Create(config ports.OutputConfig) (ports.ProgressWriter, error) {
	switch config.Format {
	case ports.OutputFormatConsole, "":
		return f.CreateConsole(config), nil
	case ports.OutputFormatJSON:
		return f.CreateJSON(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", config.Format)
	}
}

// CreateConsole returns a console writer.
func (f *Factory) CreateConsole(config ports.OutputConfig) ports.ConsoleWriter {
	return NewConsoleWriter(
		WithOutput(f.out),
		WithErrorOutput(f.errOut),
		WithColor(config.Color),
		WithVerbosity(config.Verbosity),
		WithRedactor(f.redactor),
	)
}

// CreateJSON returns a JSON lines writer.
func (f *Factory) CreateJSON() ports.ProgressWriter {
	return NewJSONWriter(
		WithJSONOutput(f.out),
		WithJSONRedactor(f.redactor),
	)
}

// CreateReportWriter returns the SRM XML report writer.
func (f *Factory) CreateReportWriter() ports.ReportWriter {
	return NewSRMXMLWriter()
}
