package finding

import "strings"

// LocationType distinguishes URL locations from file/package locations.
type LocationType string

const (
	LocationURL  LocationType = "url"
	LocationFile LocationType = "file"
)

// String returns the string representation of the location type.
func (t LocationType) String() string { return string(t) }

// ClassifyLocation returns LocationURL when the path contains "https"
// anywhere, LocationFile otherwise. Plain "http" paths are files.
func ClassifyLocation(path string) LocationType {
	if strings.Contains(path, "https") {
		return LocationURL
	}
	return LocationFile
}

// Location is where a finding was observed, together with any captured
// request/response evidence. It is a value object.
type Location struct {
	locType  LocationType
	path     string
	query    string
	variants []Variant
}

// NewLocation creates a location of an explicit type.
func NewLocation(locType LocationType, path string) Location {
	return Location{locType: locType, path: path}
}

// NewClassifiedLocation creates a location whose type is derived from the path.
func NewClassifiedLocation(path string) Location {
	return NewLocation(ClassifyLocation(path), path)
}

// NewURLLocation creates a url location with the query string kept apart
// from the path; evidence requests reuse both.
func NewURLLocation(path, query string) Location {
	return Location{locType: LocationURL, path: path, query: query}
}

// Type returns the location type.
func (l Location) Type() LocationType { return l.locType }

// Path returns the location path.
func (l Location) Path() string { return l.path }

// Query returns the query string of a url location, without the leading '?'.
func (l Location) Query() string { return l.query }

// Variants returns the evidence variants in source order.
func (l Location) Variants() []Variant { return l.variants }

// HasVariants returns true if any evidence was captured for the location.
func (l Location) HasVariants() bool { return len(l.variants) > 0 }

// WithVariants returns a copy of the location carrying the given variants.
func (l Location) WithVariants(variants []Variant) Location {
	l.variants = append([]Variant(nil), variants...)
	return l
}

// IsZero returns true if the location has no path.
func (l Location) IsZero() bool { return l.path == "" }
