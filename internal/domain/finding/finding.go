package finding

import "encoding/json"

// CategorySecurity is the only finding category emitted by the converters.
const CategorySecurity = "Security"

// Tool identifies the scanner and the check that produced a finding.
type Tool struct {
	Name     string
	Category string
	Code     string
}

// NativeID is the scanner's own identifier for a finding.
type NativeID struct {
	Name  string
	Value string
}

// IsZero returns true if neither the name nor the value is set.
func (n NativeID) IsZero() bool { return n.Name == "" && n.Value == "" }

// Finding is one normalized vulnerability record of an SRM report.
// It is immutable after creation.
type Finding struct {
	severity    Severity
	findingType string
	tool        Tool
	cwes        []string
	nativeID    NativeID
	description string
	location    Location
}

// FindingOption is a functional option for creating findings.
type FindingOption func(*Finding)

// NewFinding creates a finding with its required fields. findingType is the
// free-text origin tag SRM calls the detection method ("dynamic", "manual", ...).
func NewFinding(
	severity Severity,
	findingType string,
	tool Tool,
	location Location,
	opts ...FindingOption,
) *Finding {
	f := &Finding{
		severity:    severity,
		findingType: findingType,
		tool:        tool,
		location:    location,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithCWEs appends CWE identifiers (bare numbers) in order.
func WithCWEs(ids ...string) FindingOption {
	return func(f *Finding) { f.cwes = append(f.cwes, ids...) }
}

// WithNativeID sets the scanner-native identifier.
func WithNativeID(name, value string) FindingOption {
	return func(f *Finding) { f.nativeID = NativeID{Name: name, Value: value} }
}

// WithDescription sets the composed HTML description.
func WithDescription(html string) FindingOption {
	return func(f *Finding) { f.description = html }
}

// Severity returns the normalized severity.
func (f *Finding) Severity() Severity { return f.severity }

// Type returns the origin tag of the finding.
func (f *Finding) Type() string { return f.findingType }

// Tool returns the scanner tool reference.
func (f *Finding) Tool() Tool { return f.tool }

// CWEs returns the CWE identifiers in source order.
func (f *Finding) CWEs() []string { return f.cwes }

// NativeID returns the scanner-native identifier.
func (f *Finding) NativeID() NativeID { return f.nativeID }

// Description returns the HTML description.
func (f *Finding) Description() string { return f.description }

// Location returns where the finding was observed.
func (f *Finding) Location() Location { return f.location }

// HasCWE returns true if at least one CWE is associated with the finding.
func (f *Finding) HasCWE() bool { return len(f.cwes) > 0 }

// findingJSON is the JSON summary of a finding. Evidence is reduced to a count.
type findingJSON struct {
	Severity     Severity     `json:"severity"`
	Type         string       `json:"type"`
	Tool         string       `json:"tool"`
	Code         string       `json:"code"`
	CWEs         []string     `json:"cwes,omitempty"`
	NativeID     string       `json:"native_id,omitempty"`
	LocationType LocationType `json:"location_type"`
	Path         string       `json:"path"`
	Variants     int          `json:"variants,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f *Finding) MarshalJSON() ([]byte, error) {
	return json.Marshal(findingJSON{
		Severity:     f.severity,
		Type:         f.findingType,
		Tool:         f.tool.Name,
		Code:         f.tool.Code,
		CWEs:         f.cwes,
		NativeID:     f.nativeID.Value,
		LocationType: f.location.Type(),
		Path:         f.location.Path(),
		Variants:     len(f.location.Variants()),
	})
}
