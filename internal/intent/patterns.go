package intent

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Surface pattern category names. The cascade order in the analyzer is
// fixed; these names exist so a pattern file can override individual
// expressions without touching the order.
const (
	CategoryDirectSolution      = "direct_solution"
	CategoryLazySeeking         = "lazy_seeking"
	CategoryGenuineLearning     = "genuine_learning"
	CategoryCollaboration       = "collaboration"
	CategoryVerification        = "verification"
	CategoryAdvancedExploration = "advanced_exploration"
)

// defaultSurfacePatterns is the built-in pattern library for surface
// classification. All expressions are compiled case-insensitive.
var defaultSurfacePatterns = map[string]string{
	CategoryDirectSolution:      `(write|do|solve|complete|code|make|build|create)\s+(my|the|this|your)`,
	CategoryLazySeeking:         `(just|quickly|fast|easy|simple)\s+(give|show|tell|do|write|solve)`,
	CategoryGenuineLearning:     `(how|why|understand|learn|explain|teach|work|process)`,
	CategoryCollaboration:       `(together|help me|guide|feedback|review|improve)`,
	CategoryVerification:        `(check|verify|right|correct|validate|confirm)`,
	CategoryAdvancedExploration: `(alternative|optimize|best|elegant|edge|consider|deeper)`,
}

// motivationRule maps a motivation detector to its label. Evaluation is
// first-match-wins in slice order, so order is product behavior.
type motivationRule struct {
	Name    string
	Pattern string
	Label   string
}

var motivationRules = []motivationRule{
	{
		Name:    "time_pressure",
		Pattern: `(urgent|deadline|tomorrow|tonight|asap|quickly|fast|hurry|due)`,
		Label:   "Time pressure / Procrastination",
	},
	{
		Name:    "fear_anxiety",
		Pattern: `(afraid|worried|scared|don't know|lost|confused|stuck|help|desperate)`,
		Label:   "Fear of failure / Lack of confidence",
	},
	{
		Name:    "laziness_seeking",
		Pattern: `(just give|simply|quick|easy|shortcut|without|don't want to)`,
		Label:   "Convenience seeking / Avoiding effort",
	},
	{
		Name:    "genuine_curiosity",
		Pattern: `(why|how|curious|wonder|interested|want to understand)`,
		Label:   "Intrinsic motivation / Growth mindset",
	},
}

// Flag detector expressions, each independent of the others.
var flagPatterns = map[string]string{
	"deception": `(fake|pretend|trick|manipulate|deceive|cheat|fraud|dishonest)`,
	"harm":      `(hurt|damage|attack|harm|destroy|sabotage|harmful)`,
	"bias":      `(racism|sexism|discriminat|bigot|hate|prejudice|stereotype)`,
	"coercion":  `(must do|force|pressure|coerce|blackmail|threaten)`,
}

// PatternSet holds the compiled pattern library used by the analyzer.
type PatternSet struct {
	surface    map[string]*regexp.Regexp
	motivation []compiledMotivation
	flags      map[string]*regexp.Regexp
}

type compiledMotivation struct {
	label string
	re    *regexp.Regexp
}

// DefaultPatternSet compiles the built-in library. The defaults are
// known-good, so compilation cannot fail.
func DefaultPatternSet() *PatternSet {
	ps, err := compilePatternSet(nil)
	if err != nil {
		panic(fmt.Sprintf("intent: default patterns invalid: %v", err))
	}
	return ps
}

// patternFile is the YAML shape of an override file. Only surface
// categories can be overridden; absent keys keep their defaults.
type patternFile struct {
	Surface map[string]string `yaml:"surface"`
}

// LoadPatternFile reads a YAML pattern override file and returns the
// resulting compiled set (defaults plus overrides).
func LoadPatternFile(path string) (*PatternSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	var pf patternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}
	for name := range pf.Surface {
		if _, ok := defaultSurfacePatterns[name]; !ok {
			return nil, fmt.Errorf("unknown surface category %q", name)
		}
	}
	return compilePatternSet(pf.Surface)
}

func compilePatternSet(surfaceOverrides map[string]string) (*PatternSet, error) {
	ps := &PatternSet{
		surface: make(map[string]*regexp.Regexp, len(defaultSurfacePatterns)),
		flags:   make(map[string]*regexp.Regexp, len(flagPatterns)),
	}

	for name, expr := range defaultSurfacePatterns {
		if o, ok := surfaceOverrides[name]; ok {
			expr = o
		}
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("compile surface pattern %q: %w", name, err)
		}
		ps.surface[name] = re
	}

	for _, rule := range motivationRules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile motivation pattern %q: %w", rule.Name, err)
		}
		ps.motivation = append(ps.motivation, compiledMotivation{label: rule.Label, re: re})
	}

	for name, expr := range flagPatterns {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("compile flag pattern %q: %w", name, err)
		}
		ps.flags[name] = re
	}

	return ps, nil
}
