// Package intent classifies a free-text request: what it literally asks
// for, what the user actually needs, why they are asking, which ethical
// flags it raises, and how it can be reframed as a growth opportunity.
// Classification is pattern-driven and approximate; every step degrades
// to a generic label rather than failing.
package intent

import (
	"sort"
	"strings"
	"sync"

	"mvg/internal/memory"
	"mvg/internal/types"
)

// Surface classification labels.
const (
	SurfaceShortcut      = "Shortcut-seeking complete solution"
	SurfaceComplete      = "Request for complete solution"
	SurfaceCollaboration = "Collaborative learning request"
	SurfaceVerification  = "Verification/validation request"
	SurfaceExploration   = "Advanced exploration request"
	SurfaceLearning      = "Request for understanding/learning"
	SurfaceGeneral       = "General inquiry"
)

// Fallback labels when no pattern matches.
const (
	defaultDeepNeed   = "Knowledge or skill development"
	defaultMotivation = "Desire for growth and improvement"
	defaultGrowth     = "Develop problem-solving capability"
	growthGuided      = "Transform complete solution request into guided learning"
)

// Analyzer performs intent analysis against a swappable pattern set.
// The zero value is not usable; construct with NewAnalyzer.
type Analyzer struct {
	mu       sync.RWMutex
	patterns *PatternSet
}

// NewAnalyzer creates an analyzer with the built-in pattern library.
func NewAnalyzer() *Analyzer {
	return &Analyzer{patterns: DefaultPatternSet()}
}

// NewAnalyzerWithPatterns creates an analyzer with a custom pattern set.
func NewAnalyzerWithPatterns(ps *PatternSet) *Analyzer {
	if ps == nil {
		ps = DefaultPatternSet()
	}
	return &Analyzer{patterns: ps}
}

// Reload swaps in a new pattern set. Safe to call while Analyze runs on
// other goroutines.
func (a *Analyzer) Reload(ps *PatternSet) {
	if ps == nil {
		return
	}
	a.mu.Lock()
	a.patterns = ps
	a.mu.Unlock()
}

// Analyze classifies the query. Memory may be nil; history only sharpens
// the deep-need inference and the repetitive-dependency flag. Analyze
// never fails and never mutates memory.
func (a *Analyzer) Analyze(query string, mem *memory.UserMemory) types.Intent {
	a.mu.RLock()
	ps := a.patterns
	a.mu.RUnlock()

	surface := a.classifySurface(ps, query)
	deepNeed := a.inferDeepNeed(query, mem)
	motivation := a.inferMotivation(ps, query)
	flags := a.detectFlags(ps, query, surface, mem)

	return types.Intent{
		SurfaceRequest:       surface,
		DeepNeed:             deepNeed,
		UnderlyingMotivation: motivation,
		EthicalFlags:         flags,
		GrowthOpportunity:    growthOpportunity(flags),
	}
}

// classifySurface runs the prioritized first-match cascade. Order is
// product behavior: direct-solution outranks collaboration, which
// outranks verification, exploration, and genuine learning.
func (a *Analyzer) classifySurface(ps *PatternSet, query string) string {
	q := strings.ToLower(query)

	if ps.surface[CategoryDirectSolution].MatchString(q) {
		if ps.surface[CategoryLazySeeking].MatchString(q) {
			return SurfaceShortcut
		}
		return SurfaceComplete
	}
	if ps.surface[CategoryCollaboration].MatchString(q) {
		return SurfaceCollaboration
	}
	if ps.surface[CategoryVerification].MatchString(q) {
		return SurfaceVerification
	}
	if ps.surface[CategoryAdvancedExploration].MatchString(q) {
		return SurfaceExploration
	}
	if ps.surface[CategoryGenuineLearning].MatchString(q) {
		return SurfaceLearning
	}
	return SurfaceGeneral
}

func (a *Analyzer) inferDeepNeed(query string, mem *memory.UserMemory) string {
	q := strings.ToLower(query)

	// Topics the user is already working on take priority. Sorted so
	// repeated calls on the same snapshot pick the same topic.
	if mem != nil {
		topics := make([]string, 0, len(mem.LearningProgress))
		for topic := range mem.LearningProgress {
			topics = append(topics, topic)
		}
		sort.Strings(topics)
		for _, topic := range topics {
			if topic != "" && strings.Contains(q, strings.ToLower(topic)) {
				return "Mastery in " + topic
			}
		}
	}

	if containsAny(q, "homework", "assignment", "exam") {
		if containsAny(q, "write", "solve") {
			return "Understanding the material deeply"
		}
	}
	if containsAny(q, "business", "startup", "company", "career") {
		return "Strategic thinking and confidence"
	}
	if containsAny(q, "life", "decision", "should i", "advice") {
		return "Clarity, wisdom, and self-understanding"
	}
	if containsAny(q, "algorithm", "code", "debug", "architecture") {
		return "Problem-solving mastery"
	}
	return defaultDeepNeed
}

func (a *Analyzer) inferMotivation(ps *PatternSet, query string) string {
	q := strings.ToLower(query)
	for _, rule := range ps.motivation {
		if rule.re.MatchString(q) {
			return rule.label
		}
	}
	return defaultMotivation
}

// detectFlags accumulates every applicable ethical flag; the checks are
// independent, not exclusive.
func (a *Analyzer) detectFlags(ps *PatternSet, query, surface string, mem *memory.UserMemory) []string {
	var flags []string
	q := strings.ToLower(query)
	surfaceLower := strings.ToLower(surface)

	if strings.Contains(surfaceLower, "complete solution") || strings.Contains(surfaceLower, "shortcut") {
		flags = append(flags, types.FlagDependency)
	}
	if ps.flags["deception"].MatchString(q) {
		flags = append(flags, types.FlagDeception)
	}
	if ps.flags["harm"].MatchString(q) {
		flags = append(flags, types.FlagHarm)
	}
	if ps.flags["bias"].MatchString(q) {
		flags = append(flags, types.FlagBias)
	}
	if ps.flags["coercion"].MatchString(q) {
		flags = append(flags, types.FlagCoercion)
	}

	// Same request as one of the last three recorded classifications
	// signals a repetition pattern.
	if mem != nil {
		for _, prev := range mem.RecentSurfaces(3) {
			if q == strings.ToLower(prev) {
				flags = append(flags, types.FlagRepetitive)
				break
			}
		}
	}

	return flags
}

func growthOpportunity(flags []string) string {
	for _, f := range flags {
		if f == types.FlagDependency {
			return growthGuided
		}
	}
	return defaultGrowth
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
