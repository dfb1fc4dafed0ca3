// Package types defines the shared data model for the MVG pipeline:
// the analyzed intent, the capability assessment, the ethical verdict,
// and the final growth response. Everything here is immutable once
// produced by its stage.
package types

// CapabilityLevel is the three-way banding of a capability score.
type CapabilityLevel string

const (
	// LevelBeginner covers scores below 30.
	LevelBeginner CapabilityLevel = "beginner"

	// LevelIntermediate covers scores from 30 up to (but not including) 70.
	LevelIntermediate CapabilityLevel = "intermediate"

	// LevelAdvanced covers scores of 70 and above.
	LevelAdvanced CapabilityLevel = "advanced"
)

// LevelFromScore maps an overall capability score to its level band.
// The 30/70 boundaries are load-bearing: template selection and the
// response bodies key off the returned level.
func LevelFromScore(score int) CapabilityLevel {
	switch {
	case score < 30:
		return LevelBeginner
	case score < 70:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

// String returns the level as its wire label.
func (l CapabilityLevel) String() string { return string(l) }

// Ethical flag names raised by the intent analyzer.
const (
	FlagDependency = "potential_dependency_creation"
	FlagDeception  = "deception_intent"
	FlagHarm       = "potential_harm"
	FlagBias       = "bias_or_discrimination"
	FlagCoercion   = "coercion_pressure"
	FlagRepetitive = "repetitive_dependency"
	FlagDignity    = "violation_dignity"
)

// Intent is the per-request result of intent analysis.
type Intent struct {
	SurfaceRequest       string   `json:"surface_request"`
	DeepNeed             string   `json:"deep_need"`
	UnderlyingMotivation string   `json:"underlying_motivation"`
	EthicalFlags         []string `json:"ethical_flags"`
	GrowthOpportunity    string   `json:"growth_opportunity"`
}

// HasFlag reports whether the given ethical flag was raised.
func (i Intent) HasFlag(flag string) bool {
	for _, f := range i.EthicalFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// CapabilityAssessment is the per-request capability estimate.
// Score is the unclamped sum of four individually clamped sub-scores
// (reasoning 0-30, self-awareness 0-25, effort 0-25, trajectory 0-20),
// so it always lands in [0,100].
type CapabilityAssessment struct {
	Level      CapabilityLevel `json:"level"`
	Score      int             `json:"score"`
	Strengths  []string        `json:"strengths"`
	Weaknesses []string        `json:"weaknesses"`
	Evidence   string          `json:"evidence"`
}

// EthicalVerdict is the result of the ethical screening pass.
// RedirectSuggestion is non-empty iff ShouldProceed is false.
type EthicalVerdict struct {
	IsHarmful          bool     `json:"is_harmful"`
	IsManipulative     bool     `json:"is_manipulative"`
	CreatesDependency  bool     `json:"creates_dependency"`
	ViolatesDignity    bool     `json:"violates_dignity"`
	Concerns           []string `json:"concerns"`
	ShouldProceed      bool     `json:"should_proceed"`
	RedirectSuggestion string   `json:"redirect_suggestion,omitempty"`
}

// GrowthResponse is the final composed reply plus its rationale.
type GrowthResponse struct {
	ResponseText            string   `json:"response_text"`
	ReasoningLog            string   `json:"reasoning_log"`
	CapabilityAddressed     string   `json:"capability_addressed"`
	ExpectedOutcome         string   `json:"expected_outcome"`
	FollowUpSuggestions     []string `json:"follow_up_suggestions"`
	IndependenceScoreImpact string   `json:"independence_score_impact"`
}
