// Package capability estimates a user's proficiency from textual signals
// in the query and the score trend in their history. The estimate is
// heuristic: four independent sub-scores, each clamped to its own range,
// summed to a 0-100 score and banded into three levels.
package capability

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"mvg/internal/memory"
	"mvg/internal/types"
)

// Sub-score ranges. The four ranges sum to 100; level thresholds and
// template selection depend on the combined scale, so these must not
// drift.
const (
	reasoningMax  = 30
	awarenessMax  = 25
	effortMax     = 25
	trajectoryMax = 20
)

var (
	reasoningMarkers   = regexp.MustCompile(`(?i)(because|however|although|consider|analyze|depends on|factors)`)
	perspectiveMarkers = regexp.MustCompile(`(?i)(on the one hand|alternatively|versus|compared to|trade-off)`)
	confusionMarkers   = regexp.MustCompile(`(?i)(don't understand|confused|lost|no idea)`)

	limitationMarkers = regexp.MustCompile(`(?i)(i don't|i can't|i'm weak|i'm struggling|i need help)`)
	attemptMarkers    = regexp.MustCompile(`(?i)(tried|attempted|explored|tested|experimented)`)
	metaMarkers       = regexp.MustCompile(`(?i)(how do i learn|my approach|my method|how can i)`)
	dismissiveMarkers = regexp.MustCompile(`(?i)(obviously|clearly|simple|easy|anyone knows)`)

	concreteAttempt = regexp.MustCompile(`(?i)(i tried|attempted|worked on|experimented|tested)`)
	shortcutMarkers = regexp.MustCompile(`(?i)(just|quick|fast|simple|without effort)`)
)

// competencyKeywords drives the qualitative strength labels. Application
// keywords are recognized but carry no label of their own.
var competencyKeywords = []struct {
	name     string
	keywords []string
	strength string
}{
	{"analysis", []string{"analyze", "examine", "breakdown", "decompose", "understand why"}, "Strong analytical thinking"},
	{"application", []string{"implement", "apply", "use", "create", "build"}, ""},
	{"synthesis", []string{"combine", "integrate", "design", "solve", "optimize"}, "Can integrate and synthesize ideas"},
	{"metacognition", []string{"how do i learn", "my approach", "my method", "i've tried"}, "Self-aware learner"},
}

// Assessor computes capability assessments. Stateless; safe for
// concurrent use.
type Assessor struct{}

// NewAssessor creates an assessor.
func NewAssessor() *Assessor { return &Assessor{} }

// Assess scores the query against the user's history. Memory may be
// nil; without history the trajectory sub-score is neutral. The result
// is deterministic for a given query and memory snapshot.
func (a *Assessor) Assess(query string, mem *memory.UserMemory) types.CapabilityAssessment {
	reasoning := assessReasoning(query)
	awareness := assessSelfAwareness(query)
	effort := assessEffort(query)
	trajectory := assessTrajectory(mem)

	// The sub-scores are already clamped, so the plain sum stays in [0,100].
	score := reasoning + awareness + effort + trajectory
	level := types.LevelFromScore(score)

	strengths, weaknesses := identifyCompetencies(query, score, mem)

	return types.CapabilityAssessment{
		Level:      level,
		Score:      score,
		Strengths:  strengths,
		Weaknesses: weaknesses,
		Evidence: fmt.Sprintf(
			"Assessment based on: reasoning quality (%d/30), self-awareness (%d/25), effort shown (%d/25), resulting in overall capability score of %d/100",
			reasoning, awareness, effort, score),
	}
}

// assessReasoning scores 0-30 on depth of reasoning shown.
func assessReasoning(query string) int {
	score := 10
	if reasoningMarkers.MatchString(query) {
		score += 15
	}
	if perspectiveMarkers.MatchString(query) {
		score += 5
	}
	if confusionMarkers.MatchString(query) {
		score -= 5
	}
	return clamp(score, 0, reasoningMax)
}

// assessSelfAwareness scores 0-25 on metacognition. All applicable
// adjustments stack.
func assessSelfAwareness(query string) int {
	score := 10
	if limitationMarkers.MatchString(query) {
		score += 10
	}
	if attemptMarkers.MatchString(query) {
		score += 5
	}
	if metaMarkers.MatchString(query) {
		score += 5
	}
	if dismissiveMarkers.MatchString(query) {
		score -= 10
	}
	return clamp(score, 0, awarenessMax)
}

// assessEffort scores 0-25 on demonstrated initiative.
func assessEffort(query string) int {
	score := 8
	if concreteAttempt.MatchString(query) {
		score += 12
	}
	if len(strings.Fields(query)) > 40 {
		score += 5
	}
	if strings.Count(query, "?") > 1 {
		score += 5
	}
	if shortcutMarkers.MatchString(query) {
		score -= 8
	}
	return clamp(score, 0, effortMax)
}

// assessTrajectory scores 0-20 from the last five recorded scores:
// neutral 10 without history, 10 + min(10, (last-first)/5) when
// improving, a flat 5 when declining.
func assessTrajectory(mem *memory.UserMemory) int {
	recent := mem.RecentTrend(5)
	if len(recent) < 2 {
		return 10
	}
	first, last := recent[0], recent[len(recent)-1]
	switch {
	case last > first:
		improvement := (last - first) / 5
		if improvement > 10 {
			improvement = 10
		}
		return 10 + improvement
	case last < first:
		return 5
	default:
		return 10
	}
}

func identifyCompetencies(query string, score int, mem *memory.UserMemory) (strengths, weaknesses []string) {
	q := strings.ToLower(query)

	for _, c := range competencyKeywords {
		if c.strength == "" {
			continue
		}
		for _, kw := range c.keywords {
			if strings.Contains(q, kw) {
				strengths = append(strengths, c.strength)
				break
			}
		}
	}

	if mem != nil {
		for _, topic := range sortedTopics(mem.LearningProgress) {
			if topic == "" || !strings.Contains(q, strings.ToLower(topic)) {
				continue
			}
			switch mem.LearningProgress[topic] {
			case "beginner":
				weaknesses = append(weaknesses, "Building foundational skills in "+topic)
			case "improving":
				strengths = append(strengths, "Making progress in "+topic)
			}
		}
	}

	// A score-banded default is always appended last.
	switch {
	case score < 30:
		weaknesses = append(weaknesses, "Needs foundational knowledge and practice")
	case score > 70:
		strengths = append(strengths, "Demonstrates advanced understanding")
	default:
		strengths = append(strengths, "Has solid foundational knowledge")
		weaknesses = append(weaknesses, "Can deepen understanding of nuanced concepts")
	}

	return strengths, weaknesses
}

// sortedTopics keeps label order stable; map iteration order would make
// repeated assessments of the same snapshot disagree.
func sortedTopics(progress map[string]string) []string {
	topics := make([]string, 0, len(progress))
	for t := range progress {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
