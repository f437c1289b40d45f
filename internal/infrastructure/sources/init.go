package sources

import (
	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources/polaris"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources/tort"
)

// NewDefaultRegistry creates a registry with both converters registered.
// fetcher resolves DAST evidence artifacts and may be nil.
func NewDefaultRegistry(fetcher ports.ArtifactFetcher, opts ...polaris.ExtractorOption) *Registry {
	r := NewRegistry()

	r.Register(polaris.NewConverter(polaris.NewEvidenceExtractor(fetcher, opts...)))
	r.Register(tort.NewConverter())

	return r
}
