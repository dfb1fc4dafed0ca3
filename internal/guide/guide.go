// Package guide wires the four pipeline stages and the memory store
// into the public ProcessRequest entry point.
package guide

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"mvg/internal/capability"
	"mvg/internal/ethics"
	"mvg/internal/intent"
	"mvg/internal/memory"
	"mvg/internal/provider"
	"mvg/internal/response"
	"mvg/internal/types"
)

const (
	systemVersion   = "2.0"
	covenantVersion = "Universal Covenant v1.0 + ML Enhancement"

	defaultUserID = "default"
)

var (
	// ErrEmptyQuery is returned for blank input.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidQuery is returned for malformed input.
	ErrInvalidQuery = errors.New("query must be valid UTF-8")
)

// IntentMeta mirrors the intent stage in the result metadata.
type IntentMeta struct {
	Surface           string `json:"surface"`
	DeepNeed          string `json:"deep_need"`
	Motivation        string `json:"motivation"`
	GrowthOpportunity string `json:"growth_opportunity"`
}

// CapabilityMeta mirrors the capability stage in the result metadata.
type CapabilityMeta struct {
	Level      string   `json:"level"`
	Score      int      `json:"score"`
	Trend      string   `json:"trend"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// EthicsMeta mirrors the ethical screening in the result metadata.
type EthicsMeta struct {
	ShouldProceed bool     `json:"should_proceed"`
	Concerns      []string `json:"concerns"`
}

// Metadata carries the structured view of one processed request.
type Metadata struct {
	UserID             string         `json:"user_id"`
	InteractionNumber  int            `json:"interaction_number"`
	IntentAnalysis     IntentMeta     `json:"intent_analysis"`
	Capability         CapabilityMeta `json:"capability_assessment"`
	EthicalEvaluation  EthicsMeta     `json:"ethical_evaluation"`
	ExpectedOutcome    string         `json:"expected_outcome"`
	IndependenceImpact string         `json:"independence_impact"`
}

// Result is the complete output for one request.
type Result struct {
	Response     string   `json:"response"`
	ReasoningLog string   `json:"reasoning_log"`
	Metadata     Metadata `json:"metadata"`
}

// Guide runs the full pipeline: intent analysis, capability
// assessment, ethical screening, and response design, with per-user
// memory updated atomically around each request.
type Guide struct {
	analyzer *intent.Analyzer
	assessor *capability.Assessor
	guardian *ethics.Guardian
	designer *response.Designer
	store    *memory.Store
	provider provider.Provider
	logger   *zap.Logger
}

// Option customizes a Guide.
type Option func(*Guide)

// WithProvider attaches an optional language-model backend used to
// polish designed responses. Provider failures never fail a request.
func WithProvider(p provider.Provider) Option {
	return func(g *Guide) { g.provider = p }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Guide) { g.logger = l }
}

// WithStore replaces the default unbounded store, e.g. with a
// capacity-bounded one.
func WithStore(s *memory.Store) Option {
	return func(g *Guide) { g.store = s }
}

// WithAnalyzer replaces the default analyzer, e.g. one created from a
// pattern override file.
func WithAnalyzer(a *intent.Analyzer) Option {
	return func(g *Guide) { g.analyzer = a }
}

// New creates a Guide with default components.
func New(opts ...Option) *Guide {
	g := &Guide{
		analyzer: intent.NewAnalyzer(),
		assessor: capability.NewAssessor(),
		guardian: ethics.NewGuardian(),
		designer: response.NewDesigner(),
		store:    memory.NewStore(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Store exposes the memory store, mainly for inspection in commands
// and tests.
func (g *Guide) Store() *memory.Store {
	return g.store
}

// Analyzer exposes the intent analyzer, so callers can hot-reload its
// pattern set.
func (g *Guide) Analyzer() *intent.Analyzer {
	return g.analyzer
}

// ProcessRequest runs one query through the pipeline for the given
// user. An empty userID falls back to "default". The user's memory is
// locked for the whole pipeline, so concurrent requests for the same
// user serialize and each sees the previous interaction recorded.
func (g *Guide) ProcessRequest(ctx context.Context, query, userID string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrEmptyQuery
	}
	if !utf8.ValidString(query) {
		return Result{}, ErrInvalidQuery
	}
	if userID == "" {
		userID = defaultUserID
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var result Result
	err := g.store.WithUser(userID, func(mem *memory.UserMemory) error {
		result = g.process(ctx, query, userID, mem)
		return nil
	})
	return result, err
}

func (g *Guide) process(ctx context.Context, query, userID string, mem *memory.UserMemory) Result {
	in := g.analyzer.Analyze(query, mem)
	assessed := g.assessor.Assess(query, mem)
	verdict := g.guardian.Evaluate(in, mem)
	resp, delta := g.designer.Create(in, assessed, verdict)

	interactionNumber := mem.InteractionCount + 1
	if delta != nil {
		mem.Apply(*delta)
	}

	text := resp.ResponseText
	if g.provider != nil && verdict.ShouldProceed {
		if polished, err := g.polish(ctx, query, text, assessed.Level); err != nil {
			g.logger.Warn("provider polish failed, using template response",
				zap.String("provider", g.provider.Name()),
				zap.Error(err))
		} else {
			text = polished
		}
	}

	mem.AppendContext(query, text, assessed.Level, assessed.Score, time.Now())

	g.logger.Info("request processed",
		zap.String("user_id", userID),
		zap.Int("interaction", interactionNumber),
		zap.String("surface", in.SurfaceRequest),
		zap.String("level", assessed.Level.String()),
		zap.Int("score", assessed.Score),
		zap.Bool("proceed", verdict.ShouldProceed))

	return Result{
		Response:     text,
		ReasoningLog: completeLog(in, assessed, verdict, resp),
		Metadata: Metadata{
			UserID:            userID,
			InteractionNumber: interactionNumber,
			IntentAnalysis: IntentMeta{
				Surface:           in.SurfaceRequest,
				DeepNeed:          in.DeepNeed,
				Motivation:        in.UnderlyingMotivation,
				GrowthOpportunity: in.GrowthOpportunity,
			},
			Capability: CapabilityMeta{
				Level:      assessed.Level.String(),
				Score:      assessed.Score,
				Trend:      trendLabel(mem.CapabilityTrend),
				Strengths:  assessed.Strengths,
				Weaknesses: assessed.Weaknesses,
			},
			EthicalEvaluation: EthicsMeta{
				ShouldProceed: verdict.ShouldProceed,
				Concerns:      verdict.Concerns,
			},
			ExpectedOutcome:    resp.ExpectedOutcome,
			IndependenceImpact: resp.IndependenceScoreImpact,
		},
	}
}

// polish asks the provider to rewrite the template response in a more
// natural voice without changing its guidance.
func (g *Guide) polish(ctx context.Context, query, draft string, level types.CapabilityLevel) (string, error) {
	prompt := fmt.Sprintf(
		"You are a mentor replying to a %s-level learner. Rewrite the reply below in a natural, warm voice. Keep every step, question, and commitment intact. Never provide the solution to the learner's query.\n\nLearner's query:\n%s\n\nReply to rewrite:\n%s",
		level, query, draft)

	out, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}

// trendLabel summarizes the capability trajectory after the current
// interaction was recorded.
func trendLabel(trend []int) string {
	if len(trend) > 1 && trend[len(trend)-1] > trend[len(trend)-2] {
		return "improving"
	}
	return "stable"
}

const logRule = "═══════════════════════════════════════════════"

func completeLog(in types.Intent, assessed types.CapabilityAssessment, verdict types.EthicalVerdict, resp types.GrowthResponse) string {
	flags := "None"
	if len(in.EthicalFlags) > 0 {
		flags = strings.Join(in.EthicalFlags, ", ")
	}
	concerns := "None"
	if len(verdict.Concerns) > 0 {
		concerns = strings.Join(verdict.Concerns, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nMVG REASONING LOG v%s\nFollowing: %s\n%s\n\n", logRule, systemVersion, covenantVersion, logRule)
	fmt.Fprintf(&b, "[STEP 1: INTENT ANALYSIS]\nSurface Request: %s\nDeep Need: %s\nMotivation: %s\nEthical Flags: %s\nGrowth Opportunity: %s\n\n",
		in.SurfaceRequest, in.DeepNeed, in.UnderlyingMotivation, flags, in.GrowthOpportunity)
	fmt.Fprintf(&b, "[STEP 2: CAPABILITY ASSESSMENT]\nLevel: %s\nScore: %d/100\nStrengths: %s\nWeaknesses: %s\nEvidence: %s\n\n",
		strings.ToUpper(assessed.Level.String()), assessed.Score, strings.Join(assessed.Strengths, ", "), strings.Join(assessed.Weaknesses, ", "), assessed.Evidence)
	fmt.Fprintf(&b, "[STEP 3: ETHICAL EVALUATION]\nShould Proceed: %t\nConcerns: %s\n\n", verdict.ShouldProceed, concerns)
	fmt.Fprintf(&b, "[STEP 4: RESPONSE DESIGN]\nApproach: %s level response\nCapability Addressed: %s\nExpected Outcome: %s\nIndependence Impact: %s\n\n",
		assessed.Level, resp.CapabilityAddressed, resp.ExpectedOutcome, resp.IndependenceScoreImpact)
	fmt.Fprintf(&b, "[FINAL REASONING]\n%s\n%s", resp.ReasoningLog, logRule)
	return b.String()
}
