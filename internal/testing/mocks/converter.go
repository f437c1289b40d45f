// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// MockConverter is a configurable mock implementation of ports.Converter.
type MockConverter struct {
	IDValue     ports.SourceID
	ConvertFunc func(ctx context.Context, data []byte, opts ports.ConvertOptions) (*ports.Conversion, error)

	// LastInput and LastOptions record the most recent call.
	LastInput   []byte
	LastOptions ports.ConvertOptions
	Calls       int
}

// NewMockConverter creates a mock converter returning an empty report.
func NewMockConverter(id ports.SourceID) *MockConverter {
	return &MockConverter{IDValue: id}
}

// ID returns the source ID.
func (m *MockConverter) ID() ports.SourceID {
	return m.IDValue
}

// Convert runs the mock conversion.
func (m *MockConverter) Convert(ctx context.Context, data []byte, opts ports.ConvertOptions) (*ports.Conversion, error) {
	m.Calls++
	m.LastInput = data
	m.LastOptions = opts
	if m.ConvertFunc != nil {
		return m.ConvertFunc(ctx, data, opts)
	}
	return &ports.Conversion{
		Source: m.IDValue,
		Report: report.NewReport(report.FormatDate(opts.RunDate), "mock"),
	}, nil
}

// WithConversion configures the mock to return c.
func (m *MockConverter) WithConversion(c *ports.Conversion) *MockConverter {
	m.ConvertFunc = func(_ context.Context, _ []byte, _ ports.ConvertOptions) (*ports.Conversion, error) {
		return c, nil
	}
	return m
}

// WithError configures the mock to return an error.
func (m *MockConverter) WithError(err error) *MockConverter {
	m.ConvertFunc = func(_ context.Context, _ []byte, _ ports.ConvertOptions) (*ports.Conversion, error) {
		return nil, err
	}
	return m
}

var _ ports.Converter = (*MockConverter)(nil)
