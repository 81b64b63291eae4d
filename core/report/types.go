package report

// IssueKind classifies a discrepancy between a reference and a target API.
type IssueKind string

const (
	MissingType                    IssueKind = "missing_type"
	MissingField                   IssueKind = "missing_field"
	MissingMethod                  IssueKind = "missing_method"
	MissingConstructor             IssueKind = "missing_constructor"
	TypePropertyMismatch           IssueKind = "type_property_mismatch"
	FieldPropertyMismatch          IssueKind = "field_property_mismatch"
	MethodPropertyMismatch         IssueKind = "method_property_mismatch"
	MissingInterfaceImplementation IssueKind = "missing_interface_implementation"
	MissingTypeParameter           IssueKind = "missing_type_parameter"
)

// Report is a single discrepancy found while comparing two APIs.
// Entity names the reference-side entity the report is about.
type Report struct {
	Issue   IssueKind `json:"issue"`
	Message string    `json:"message"`
	Entity  string    `json:"entity"`
	Source  string    `json:"source,omitempty"`
}

// Comparison is the full result of comparing a reference API with a target API.
type Comparison struct {
	Reference        []string `json:"reference"`
	Target           []string `json:"target"`
	ReferenceVersion string   `json:"reference_version,omitempty"`
	TargetVersion    string   `json:"target_version,omitempty"`
	Reports          []Report `json:"reports"`
}

// CountByIssue tallies the reports per issue kind.
func (c Comparison) CountByIssue() map[IssueKind]int {
	counts := make(map[IssueKind]int)
	for _, r := range c.Reports {
		counts[r.Issue]++
	}
	return counts
}
