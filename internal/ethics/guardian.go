// Package ethics renders the proceed/block verdict for an analyzed
// request. Harm, manipulation, dignity violations, and discrimination
// block; dependency is recorded as a concern but never blocks on its
// own.
package ethics

import (
	"strings"

	"mvg/internal/memory"
	"mvg/internal/types"
)

// Concern labels, in the order checks run.
const (
	ConcernHarm       = "Direct harm potential"
	ConcernDeception  = "Manipulation or deception"
	ConcernDependency = "Creates unhealthy dependency"
	ConcernDignity    = "Violates human dignity"
	ConcernBias       = "Contains harmful bias or discrimination"
)

// Historical-dependency escalation thresholds: more than 60% of the
// request history looking like shortcut/do-it-for-me requests, once the
// user has more than 10 interactions behind them.
const (
	dependencyHistoryRatio = 0.6
	dependencyMinHistory   = 10
)

// Canned redirects, selected by concern in fixed priority order.
const (
	redirectHarm = "I cannot assist with this request as it may cause harm. " +
		"However, I'd like to help you achieve your underlying goal " +
		"in a way that benefits everyone involved. What's the positive " +
		"outcome you're trying to reach?"

	redirectDeception = "I can't help with deception, but I absolutely can help you " +
		"communicate what you need more effectively and honestly. " +
		"Authentic communication actually works better. What's really " +
		"going on here?"

	redirectDependency = "I notice you might be building a pattern of asking for solutions " +
		"rather than learning. That would actually make you weaker, not stronger. " +
		"Let me help you become independent and capable instead. Ready?"

	redirectDignity = "This request involves pressure or coercion, which I can't support. " +
		"But I can help you find a way to get what you need that respects " +
		"everyone's dignity and autonomy. Let's explore that together."

	redirectBias = "I notice this request involves stereotyping or discrimination. " +
		"Instead, let me help you see the fuller picture and connect with " +
		"the real humanity in this situation. That's where real solutions come from."

	redirectGeneric = "I cannot fulfill this request as stated, but I can help you find a better path forward."
)

// Guardian evaluates analyzed intents. Stateless; safe for concurrent
// use.
type Guardian struct{}

// NewGuardian creates a guardian.
func NewGuardian() *Guardian { return &Guardian{} }

// Evaluate renders the verdict for an analyzed intent. Memory is read
// only, to spot long-running dependency patterns; it may be nil.
func (g *Guardian) Evaluate(intent types.Intent, mem *memory.UserMemory) types.EthicalVerdict {
	harm := intent.HasFlag(types.FlagHarm)
	manipulation := intent.HasFlag(types.FlagDeception)
	dependency := checkDependency(intent, mem)
	dignity := intent.HasFlag(types.FlagCoercion) || intent.HasFlag(types.FlagDignity)
	bias := intent.HasFlag(types.FlagBias)

	var concerns []string
	if harm {
		concerns = append(concerns, ConcernHarm)
	}
	if manipulation {
		concerns = append(concerns, ConcernDeception)
	}
	if dependency {
		concerns = append(concerns, ConcernDependency)
	}
	if dignity {
		concerns = append(concerns, ConcernDignity)
	}
	if bias {
		concerns = append(concerns, ConcernBias)
	}

	// Dependency alone never blocks; it is handled by reframing the
	// response, not by refusing.
	mustStop := harm || manipulation || dignity || bias

	verdict := types.EthicalVerdict{
		IsHarmful:         harm,
		IsManipulative:    manipulation,
		CreatesDependency: dependency,
		ViolatesDignity:   dignity,
		Concerns:          concerns,
		ShouldProceed:     !mustStop,
	}
	if mustStop {
		verdict.RedirectSuggestion = redirectFor(concerns)
	}
	return verdict
}

// checkDependency is true on an explicit dependency flag, on the
// repetition flag, or when the user's history crosses the shortcut
// threshold.
func checkDependency(intent types.Intent, mem *memory.UserMemory) bool {
	if intent.HasFlag(types.FlagRepetitive) {
		return true
	}
	if mem != nil && mem.InteractionCount > dependencyMinHistory {
		shortcuts := 0
		for _, r := range mem.RequestHistory {
			lower := strings.ToLower(r)
			if strings.Contains(lower, "shortcut") || strings.Contains(lower, "write") {
				shortcuts++
			}
		}
		if float64(shortcuts) > float64(mem.InteractionCount)*dependencyHistoryRatio {
			return true
		}
	}
	return intent.HasFlag(types.FlagDependency)
}

// redirectFor picks the canned redirect for the highest-priority
// concern present. A blocking verdict always carries at least one of
// the matched concerns, so the generic fallback should not be reached.
func redirectFor(concerns []string) string {
	has := func(c string) bool {
		for _, x := range concerns {
			if x == c {
				return true
			}
		}
		return false
	}

	switch {
	case has(ConcernHarm):
		return redirectHarm
	case has(ConcernDeception):
		return redirectDeception
	case has(ConcernDependency):
		return redirectDependency
	case has(ConcernDignity):
		return redirectDignity
	case has(ConcernBias):
		return redirectBias
	default:
		return redirectGeneric
	}
}
