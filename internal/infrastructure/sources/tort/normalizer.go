package tort

import (
	"strings"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/pkg/jsonutil"
)

const (
	notAvailable   = "N/A"
	nativeIDSuffix = " Finding ID"
)

// Normalizer converts TORT issues to domain findings.
type Normalizer struct {
	toolName    string
	packageName string
}

// NewNormalizer creates a normalizer for findings generated by toolName.
// packageName is the location fallback for issues without a fix location.
func NewNormalizer(toolName, packageName string) *Normalizer {
	if toolName == "" {
		toolName = ports.DefaultMASTToolName
	}
	return &Normalizer{toolName: toolName, packageName: packageName}
}

// ToolName returns the tool name written to findings and the report.
func (n *Normalizer) ToolName() string { return n.toolName }

// Normalize converts an issue into a finding.
func (n *Normalizer) Normalize(issue Issue) *finding.Finding {
	var severity string
	if issue.Risk != nil && issue.Risk.Severity != nil {
		severity = issue.Risk.Severity.String()
	}

	return finding.NewFinding(
		finding.NormalizeSeverity(severity),
		issue.FoundBy.String(),
		finding.Tool{Name: n.toolName, Category: finding.CategorySecurity, Code: issue.Name.String()},
		finding.NewClassifiedLocation(n.location(issue)),
		finding.WithCWEs(finding.ParseCWEList(issue.CWEID.String())...),
		finding.WithNativeID(strings.ToUpper(n.toolName)+nativeIDSuffix, issue.Identifier.String()),
		finding.WithDescription(Description(issue)),
	)
}

// location picks the fix location, then the package name, then the
// comma joined instance URLs.
func (n *Normalizer) location(issue Issue) string {
	if loc := issue.FixLocation.String(); loc != "" {
		return loc
	}
	if n.packageName != "" {
		return n.packageName
	}
	urls := make([]string, len(issue.Instances))
	for i, inst := range issue.Instances {
		urls[i] = inst.URL.String()
	}
	return strings.Join(urls, ",")
}

// Description composes the HTML description of an issue. Blocks appear in
// a fixed order; the risk summary is always present.
func Description(issue Issue) string {
	b := finding.NewDescriptionBuilder().
		Heading("Description").
		Text(issue.Description.String()).
		Section("Remediation", issue.Remediation.String()).
		Section("Steps to Reproduce", issue.StepsToReproduce.String()).
		Section("Notes", issue.Note.String()).
		Section("Likelihood", issue.LikelihoodDescription.String())

	if pci := pciInfo(issue); pci != "" {
		b.Block("PCI Info").Text(pci)
	}

	b.Section("Impact Description", issue.ImpactDescription.String())

	r := issue.Risk
	if r == nil {
		r = &Risk{}
	}
	b.Block("Risk").Text(
		"Impact: " + orNA(r.Impact) +
			"<br>Likelihood: " + orNA(r.Likelihood) +
			"<br>Classification: " + orNA(r.Classification) +
			"<br>Type: " + orNA(r.Type) +
			"<br>Severity: " + orNA(r.Severity) +
			"<br>Priority: " + orNA(r.Priority))

	return b.String()
}

func pciInfo(issue Issue) string {
	var sb strings.Builder
	if v := issue.PCIDetails.String(); v != "" {
		sb.WriteString("PCI Details:" + v + "<br>")
	}
	if v := issue.PCIID.String(); v != "" && v != notAvailable {
		sb.WriteString("PCI ID: " + v + "<br>")
	}
	if v := issue.PCIDesc.String(); v != "" {
		sb.WriteString("PCI Description: " + v + "<br>")
	}
	return sb.String()
}

// orNA returns the field text, or N/A when the field was absent.
func orNA(v *jsonutil.FlexString) string {
	if v == nil {
		return notAvailable
	}
	return v.String()
}
