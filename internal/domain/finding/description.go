package finding

import "strings"

const blockSeparator = "<br><br>"

// DescriptionBuilder composes the HTML description of a finding from
// headed blocks. Field text is appended verbatim, without escaping, since
// SRM renders the description as HTML.
type DescriptionBuilder struct {
	sb           strings.Builder
	headingBreak string
}

// DescriptionOption configures a DescriptionBuilder.
type DescriptionOption func(*DescriptionBuilder)

// WithHeadingBreak places a line break between each heading and its body.
func WithHeadingBreak() DescriptionOption {
	return func(d *DescriptionBuilder) { d.headingBreak = "<br>" }
}

// NewDescriptionBuilder creates an empty builder.
func NewDescriptionBuilder(opts ...DescriptionOption) *DescriptionBuilder {
	d := &DescriptionBuilder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Text appends raw text.
func (d *DescriptionBuilder) Text(s string) *DescriptionBuilder {
	d.sb.WriteString(s)
	return d
}

// Heading appends an <h3> heading without a leading separator.
func (d *DescriptionBuilder) Heading(title string) *DescriptionBuilder {
	d.sb.WriteString("<h3>")
	d.sb.WriteString(title)
	d.sb.WriteString(":</h3>")
	d.sb.WriteString(d.headingBreak)
	return d
}

// Block starts a new headed block. Callers append the body with Text.
func (d *DescriptionBuilder) Block(title string) *DescriptionBuilder {
	d.sb.WriteString(blockSeparator)
	return d.Heading(title)
}

// Section appends a headed block holding body. Empty bodies are skipped.
func (d *DescriptionBuilder) Section(title, body string) *DescriptionBuilder {
	if body == "" {
		return d
	}
	return d.Block(title).Text(body)
}

// String returns the composed HTML.
func (d *DescriptionBuilder) String() string { return d.sb.String() }
