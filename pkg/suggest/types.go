package suggest

import "time"

// ValueDifference records one leaf-level drift between the desired (source)
// tree and the current (destination) tree of a single file.
type ValueDifference struct {
	FilePath    string      `json:"file_path"`
	JSONPath    string      `json:"json_path"`
	OldValue    interface{} `json:"old_value"`
	TargetValue interface{} `json:"target_value"`
}

// ValuePair is a concrete before/after example backing a suggestion.
type ValuePair struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// patternOccurrence accumulates evidence for one find→replace candidate
// across all differences of one analysis run.
type patternOccurrence struct {
	find     string
	replace  string
	files    map[string]bool
	examples []ValuePair
}

// PathValueCollection profiles the values seen at one generalized path
// across all changed files' processed trees.
type PathValueCollection struct {
	Values []interface{}
	Files  map[string]bool
}

// TransformSuggestion is a proposed content-transform rule.
type TransformSuggestion struct {
	Find          string      `json:"find"`
	Replace       string      `json:"replace"`
	Confidence    float64     `json:"confidence"`
	Occurrences   int         `json:"occurrences"`
	AffectedFiles []string    `json:"affected_files"`
	Examples      []ValuePair `json:"examples"`
}

type RuleKind string

const (
	RuleSemverMajorUpgrade RuleKind = "semverMajorUpgrade"
	RuleSemverDowngrade    RuleKind = "semverDowngrade"
	RuleVersionFormat      RuleKind = "versionFormat"
	RuleNumeric            RuleKind = "numeric"
)

// Rule is the closed set of stop-rule payloads. Exactly one concrete type
// exists per kind; consumers switch over the concrete types rather than
// inspecting string fields.
type Rule interface {
	Kind() RuleKind
	TargetPath() string
	stopRule()
}

// SemverMajorUpgrade blocks promotions that bump the major version at Path.
type SemverMajorUpgrade struct {
	Path string `json:"path"`
}

func (r SemverMajorUpgrade) Kind() RuleKind     { return RuleSemverMajorUpgrade }
func (r SemverMajorUpgrade) TargetPath() string { return r.Path }
func (r SemverMajorUpgrade) stopRule()          {}

// SemverDowngrade blocks promotions that lower the version at Path.
type SemverDowngrade struct {
	Path string `json:"path"`
}

func (r SemverDowngrade) Kind() RuleKind     { return RuleSemverDowngrade }
func (r SemverDowngrade) TargetPath() string { return r.Path }
func (r SemverDowngrade) stopRule()          {}

// VersionFormat pins whether versions at Path carry a leading "v".
// VPrefix is either "required" or "forbidden".
type VersionFormat struct {
	Path    string `json:"path"`
	VPrefix string `json:"v_prefix"`
}

func (r VersionFormat) Kind() RuleKind     { return RuleVersionFormat }
func (r VersionFormat) TargetPath() string { return r.Path }
func (r VersionFormat) stopRule()          {}

// NumericRange constrains numeric values at Path. Min and Max are optional;
// the detectors only ever propose a Min.
type NumericRange struct {
	Path string `json:"path"`
	Min  *int   `json:"min,omitempty"`
	Max  *int   `json:"max,omitempty"`
}

func (r NumericRange) Kind() RuleKind     { return RuleNumeric }
func (r NumericRange) TargetPath() string { return r.Path }
func (r NumericRange) stopRule()          {}

// StopRuleSuggestion is a proposed safety rule with its supporting evidence.
type StopRuleSuggestion struct {
	Rule          Rule     `json:"rule"`
	Confidence    float64  `json:"confidence"`
	Reason        string   `json:"reason"`
	AffectedPaths []string `json:"affected_paths"`
	AffectedFiles []string `json:"affected_files"`
}

// Metadata describes one analysis run.
type Metadata struct {
	FilesAnalyzed int       `json:"files_analyzed"`
	ChangedFiles  int       `json:"changed_files"`
	Timestamp     time.Time `json:"timestamp"`
}

// SuggestionResult is the full output of one analysis run, keyed by the glob
// pattern the suggestions should be filed under in the promotion config.
type SuggestionResult struct {
	Transforms map[string][]TransformSuggestion `json:"transforms"`
	StopRules  map[string][]StopRuleSuggestion  `json:"stop_rules"`
	Metadata   Metadata                         `json:"metadata"`
}
