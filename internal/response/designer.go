package response

import (
	"fmt"
	"strings"
	"time"

	"mvg/internal/memory"
	"mvg/internal/types"
)

// Designer composes growth-oriented responses from the upstream stages.
// It is pure: memory changes are described by the returned Delta and
// applied by the caller, never here.
type Designer struct{}

func NewDesigner() *Designer {
	return &Designer{}
}

// ToneFor buckets a motivation description into a template tone. Checks
// run in order so mixed descriptions resolve predictably.
func ToneFor(motivation string) MotivationTone {
	m := strings.ToLower(motivation)
	switch {
	case strings.Contains(m, "fear") || strings.Contains(m, "anxiety"):
		return ToneFear
	case strings.Contains(m, "lazy") || strings.Contains(m, "shortcut") || strings.Contains(m, "convenience"):
		return ToneLaziness
	case strings.Contains(m, "pressure") || strings.Contains(m, "time"):
		return ToneUrgency
	case strings.Contains(m, "growth") || strings.Contains(m, "improvement"):
		return ToneGenuine
	default:
		return ToneNeutral
	}
}

// Create builds the response for one interaction. When the verdict
// blocks, it returns the redirect response and a nil Delta; otherwise
// the Delta records the interaction for the caller to apply.
func (d *Designer) Create(
	intent types.Intent,
	capability types.CapabilityAssessment,
	verdict types.EthicalVerdict,
) (types.GrowthResponse, *memory.Delta) {
	if !verdict.ShouldProceed {
		return d.redirect(verdict), nil
	}

	tone := ToneFor(intent.UnderlyingMotivation)

	var resp types.GrowthResponse
	switch capability.Level {
	case types.LevelBeginner:
		resp = d.forBeginner(intent, capability, tone)
	case types.LevelIntermediate:
		resp = d.forIntermediate(capability, tone)
	default:
		resp = d.forAdvanced(intent, capability, tone)
	}

	delta := &memory.Delta{
		Surface: intent.SurfaceRequest,
		Score:   capability.Score,
		When:    time.Now(),
	}
	return resp, delta
}

func (d *Designer) redirect(verdict types.EthicalVerdict) types.GrowthResponse {
	text := verdict.RedirectSuggestion
	if text == "" {
		text = "I need to pause here."
	}
	return types.GrowthResponse{
		ResponseText: text,
		ReasoningLog: fmt.Sprintf(
			"Ethical concerns detected: %s. Providing ethical redirect to help user find better path.",
			strings.Join(verdict.Concerns, ", ")),
		CapabilityAddressed:     "Ethical decision-making and values",
		ExpectedOutcome:         "User reflects on their approach and finds ethical alternative",
		FollowUpSuggestions:     append([]string(nil), redirectFollowUps...),
		IndependenceScoreImpact: impactRedirect,
	}
}

func (d *Designer) forBeginner(intent types.Intent, capability types.CapabilityAssessment, tone MotivationTone) types.GrowthResponse {
	opening, ok := beginnerOpenings[tone]
	if !ok {
		opening = beginnerOpenings[ToneGenuine]
	}

	strengths := "You're taking the initiative to learn"
	if len(capability.Strengths) > 0 {
		strengths = strings.Join(capability.Strengths, ", ")
	}
	weakness := "Building core understanding"
	if len(capability.Weaknesses) > 0 {
		weakness = capability.Weaknesses[0]
	}

	addressed := "Core foundations"
	if len(capability.Weaknesses) > 0 {
		addressed = capability.Weaknesses[0]
	}

	return types.GrowthResponse{
		ResponseText: opening + fmt.Sprintf(beginnerBody, strengths, weakness),
		ReasoningLog: fmt.Sprintf(
			"Beginner level (%d/100). Motivation: %s. Using foundational teaching with %s-aware approach. Growth opportunity: %s",
			capability.Score, tone, tone, intent.GrowthOpportunity),
		CapabilityAddressed:     addressed,
		ExpectedOutcome:         "User gains real understanding + confidence to solve similar problems",
		FollowUpSuggestions:     append([]string(nil), beginnerFollowUps...),
		IndependenceScoreImpact: impactBeginner,
	}
}

func (d *Designer) forIntermediate(capability types.CapabilityAssessment, tone MotivationTone) types.GrowthResponse {
	opening, ok := intermediateOpenings[tone]
	if !ok {
		opening = intermediateOpenings[ToneGenuine]
	}

	noticed := "You have solid foundational knowledge"
	if len(capability.Strengths) > 0 {
		noticed = capability.Strengths[0]
	}

	return types.GrowthResponse{
		ResponseText: opening + fmt.Sprintf(intermediateBody, noticed),
		ReasoningLog: fmt.Sprintf(
			"Intermediate level (%d/100). Motivation: %s. Using strategic guidance + reflection prompts. Goal: Develop independent problem-solving confidence.",
			capability.Score, tone),
		CapabilityAddressed:     "Strategic thinking and problem-solving methodology",
		ExpectedOutcome:         "User develops deeper understanding and structured approach",
		FollowUpSuggestions:     append([]string(nil), intermediateFollowUps...),
		IndependenceScoreImpact: impactIntermediate,
	}
}

func (d *Designer) forAdvanced(intent types.Intent, capability types.CapabilityAssessment, tone MotivationTone) types.GrowthResponse {
	surface := strings.ToLower(intent.SurfaceRequest)
	opening := advancedDepthOpening
	switch {
	case strings.Contains(surface, "verif"):
		opening = advancedVerifyOpening
	case strings.Contains(surface, "optim"), strings.Contains(surface, "better"):
		opening = advancedOptimOpening
	}

	return types.GrowthResponse{
		ResponseText: opening + advancedBody,
		ReasoningLog: fmt.Sprintf(
			"Advanced level (%d/100). Motivation: %s. Using Socratic method to deepen critical thinking. Goal: Move toward independent mastery and intellectual leadership.",
			capability.Score, tone),
		CapabilityAddressed:     "Advanced problem-solving, systems thinking, and intellectual independence",
		ExpectedOutcome:         "User achieves deeper insight, explores multiple perspectives, develops mastery",
		FollowUpSuggestions:     append([]string(nil), advancedFollowUps...),
		IndependenceScoreImpact: impactAdvanced,
	}
}
