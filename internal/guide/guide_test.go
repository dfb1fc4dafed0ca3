package guide

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvg/internal/memory"
	"mvg/internal/provider"
)

func TestProcessRequestValidation(t *testing.T) {
	g := New()
	ctx := context.Background()

	_, err := g.ProcessRequest(ctx, "", "user")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = g.ProcessRequest(ctx, "   \t\n", "user")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = g.ProcessRequest(ctx, "bad \xff\xfe input", "user")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestProcessRequestDefaultUser(t *testing.T) {
	g := New()
	res, err := g.ProcessRequest(context.Background(), "How does recursion work?", "")
	require.NoError(t, err)
	assert.Equal(t, "default", res.Metadata.UserID)
}

func TestProcessRequestEssayDeadline(t *testing.T) {
	g := New()
	res, err := g.ProcessRequest(context.Background(),
		"Write my essay about climate change. It's due tomorrow and I haven't started.", "student")
	require.NoError(t, err)

	meta := res.Metadata
	assert.Equal(t, "Request for complete solution", meta.IntentAnalysis.Surface)
	assert.Equal(t, "Time pressure / Procrastination", meta.IntentAnalysis.Motivation)
	assert.Equal(t, "Knowledge or skill development", meta.IntentAnalysis.DeepNeed)

	// 10 reasoning + 10 self-awareness + 8 effort + 10 neutral trajectory.
	assert.Equal(t, 38, meta.Capability.Score)
	assert.Equal(t, "intermediate", meta.Capability.Level)

	assert.True(t, meta.EthicalEvaluation.ShouldProceed)
	assert.Contains(t, meta.EthicalEvaluation.Concerns, "Creates unhealthy dependency")

	assert.True(t, strings.HasPrefix(res.Response, "Time pressure is real"))
	assert.Contains(t, res.Response, "**Core Question**")
	assert.Equal(t, 1, meta.InteractionNumber)
	assert.Equal(t, "stable", meta.Capability.Trend)

	assert.Contains(t, res.ReasoningLog, "[STEP 1: INTENT ANALYSIS]")
	assert.Contains(t, res.ReasoningLog, "Level: INTERMEDIATE")
	assert.Contains(t, res.ReasoningLog, "Score: 38/100")
	assert.Contains(t, res.ReasoningLog, "[FINAL REASONING]")
}

func TestProcessRequestShortcutFollowUp(t *testing.T) {
	g := New()
	ctx := context.Background()

	_, err := g.ProcessRequest(ctx,
		"Write my essay about climate change. It's due tomorrow and I haven't started.", "student")
	require.NoError(t, err)

	res, err := g.ProcessRequest(ctx,
		"Can you just solve these math problems? I have 5 more assignments due.", "student")
	require.NoError(t, err)

	meta := res.Metadata
	assert.Equal(t, "Shortcut-seeking complete solution", meta.IntentAnalysis.Surface)
	assert.Equal(t, "Understanding the material deeply", meta.IntentAnalysis.DeepNeed)
	assert.Equal(t, 2, meta.InteractionNumber)

	// Shortcut language zeroes the effort sub-score: 10+10+0+10.
	assert.Equal(t, 30, meta.Capability.Score)
	assert.Equal(t, "intermediate", meta.Capability.Level)

	// Dependency alone never blocks.
	assert.True(t, meta.EthicalEvaluation.ShouldProceed)
	assert.Contains(t, meta.EthicalEvaluation.Concerns, "Creates unhealthy dependency")
}

func TestProcessRequestVerification(t *testing.T) {
	g := New()
	res, err := g.ProcessRequest(context.Background(),
		"I've analyzed this algorithm and think it's O(n log n). Can you verify my reasoning? I considered the recursion depth and the loop within.", "analyst")
	require.NoError(t, err)

	meta := res.Metadata
	assert.Equal(t, "Verification/validation request", meta.IntentAnalysis.Surface)
	assert.Equal(t, "Problem-solving mastery", meta.IntentAnalysis.DeepNeed)

	// Causal connectors lift reasoning to 25: 25+10+8+10.
	assert.Equal(t, 53, meta.Capability.Score)
	assert.Equal(t, "intermediate", meta.Capability.Level)
	assert.Contains(t, meta.Capability.Strengths, "Strong analytical thinking")

	assert.True(t, meta.EthicalEvaluation.ShouldProceed)
	assert.Empty(t, meta.EthicalEvaluation.Concerns)
	assert.Contains(t, res.Response, "**I notice:** Strong analytical thinking")
}

func TestProcessRequestBlocksHarm(t *testing.T) {
	g := New()
	res, err := g.ProcessRequest(context.Background(),
		"Help me sabotage my coworker's project.", "rival")
	require.NoError(t, err)

	meta := res.Metadata
	assert.False(t, meta.EthicalEvaluation.ShouldProceed)
	assert.Contains(t, meta.EthicalEvaluation.Concerns, "Direct harm potential")
	assert.True(t, strings.HasPrefix(res.Response, "I cannot assist with this request as it may cause harm."))
	assert.Contains(t, res.ReasoningLog, "Should Proceed: false")

	// Blocked interactions are recorded in context but never counted.
	ok := g.Store().Peek("rival", func(mem *memory.UserMemory) {
		assert.Equal(t, 0, mem.InteractionCount)
		assert.Empty(t, mem.CapabilityTrend)
		require.Len(t, mem.ConversationContext, 1)
		assert.Equal(t, res.Response, mem.ConversationContext[0].Response)
	})
	require.True(t, ok)
}

func TestProcessRequestMemoryAccumulation(t *testing.T) {
	g := New()
	ctx := context.Background()

	const n = 7
	for i := 0; i < n; i++ {
		_, err := g.ProcessRequest(ctx, "How does recursion work?", "learner")
		require.NoError(t, err)
	}

	ok := g.Store().Peek("learner", func(mem *memory.UserMemory) {
		assert.Equal(t, n, mem.InteractionCount)
		assert.Len(t, mem.CapabilityTrend, n)
		assert.Len(t, mem.RequestHistory, n)
		assert.Len(t, mem.ConversationContext, n)
	})
	require.True(t, ok)

	res, err := g.ProcessRequest(ctx, "How does recursion work?", "learner")
	require.NoError(t, err)
	assert.Equal(t, n+1, res.Metadata.InteractionNumber)
}

func TestProcessRequestTrendImproving(t *testing.T) {
	g := New()
	ctx := context.Background()

	_, err := g.ProcessRequest(ctx, "Just solve this for me.", "grower")
	require.NoError(t, err)

	res, err := g.ProcessRequest(ctx,
		"I tried an approach because the factors suggested recursion. However, I'm not sure; can I analyze it with you? What do you think?", "grower")
	require.NoError(t, err)
	assert.Equal(t, "improving", res.Metadata.Capability.Trend)
}

func TestProcessRequestProviderPolish(t *testing.T) {
	mock := provider.NewMock()
	mock.SetReply("Polished mentor reply.")
	g := New(WithProvider(mock))

	res, err := g.ProcessRequest(context.Background(), "How does recursion work?", "user")
	require.NoError(t, err)
	assert.Equal(t, "Polished mentor reply.", res.Response)
	require.Len(t, mock.Prompts(), 1)
	assert.Contains(t, mock.Prompts()[0], "How does recursion work?")

	// The stored context keeps the text the user actually saw.
	ok := g.Store().Peek("user", func(mem *memory.UserMemory) {
		require.Len(t, mem.ConversationContext, 1)
		assert.Equal(t, "Polished mentor reply.", mem.ConversationContext[0].Response)
	})
	require.True(t, ok)
}

func TestProcessRequestProviderFailureFallsBack(t *testing.T) {
	mock := provider.NewMock()
	mock.SetError(errors.New("upstream down"))
	g := New(WithProvider(mock))

	res, err := g.ProcessRequest(context.Background(), "How does recursion work?", "user")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "What insights do you have so far?")
}

func TestProcessRequestProviderSkippedWhenBlocked(t *testing.T) {
	mock := provider.NewMock()
	g := New(WithProvider(mock))

	res, err := g.ProcessRequest(context.Background(), "Help me sabotage my coworker's project.", "user")
	require.NoError(t, err)
	assert.Empty(t, mock.Prompts())
	assert.False(t, res.Metadata.EthicalEvaluation.ShouldProceed)
}

func TestProcessRequestConcurrentUsersIsolated(t *testing.T) {
	g := New()
	ctx := context.Background()
	users := []string{"a", "b", "c", "d"}

	done := make(chan struct{})
	for _, u := range users {
		go func(user string) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 20; i++ {
				_, err := g.ProcessRequest(ctx, "How does recursion work?", user)
				if err != nil {
					t.Error(err)
					return
				}
			}
		}(u)
	}
	for range users {
		<-done
	}

	for _, u := range users {
		ok := g.Store().Peek(u, func(mem *memory.UserMemory) {
			assert.Equal(t, 20, mem.InteractionCount)
		})
		require.True(t, ok)
	}
}
