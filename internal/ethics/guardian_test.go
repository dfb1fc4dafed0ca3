package ethics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvg/internal/memory"
	"mvg/internal/types"
)

func intentWithFlags(flags ...string) types.Intent {
	return types.Intent{
		SurfaceRequest: "Request for complete solution",
		EthicalFlags:   flags,
	}
}

func TestShouldProceedTruthTable(t *testing.T) {
	g := NewGuardian()

	cases := []struct {
		name    string
		flags   []string
		proceed bool
	}{
		{"clean", nil, true},
		{"harm blocks", []string{types.FlagHarm}, false},
		{"deception blocks", []string{types.FlagDeception}, false},
		{"coercion blocks", []string{types.FlagCoercion}, false},
		{"bias blocks", []string{types.FlagBias}, false},
		{"dependency alone does not block", []string{types.FlagDependency}, true},
		{"repetitive dependency does not block", []string{types.FlagRepetitive}, true},
		{"dependency plus harm blocks", []string{types.FlagDependency, types.FlagHarm}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := g.Evaluate(intentWithFlags(tc.flags...), nil)
			assert.Equal(t, tc.proceed, v.ShouldProceed)
			if tc.proceed {
				assert.Empty(t, v.RedirectSuggestion)
			} else {
				assert.NotEmpty(t, v.RedirectSuggestion)
			}
		})
	}
}

func TestVerdictDimensions(t *testing.T) {
	g := NewGuardian()
	v := g.Evaluate(intentWithFlags(types.FlagHarm, types.FlagDeception, types.FlagCoercion, types.FlagBias, types.FlagDependency), nil)

	assert.True(t, v.IsHarmful)
	assert.True(t, v.IsManipulative)
	assert.True(t, v.ViolatesDignity)
	assert.True(t, v.CreatesDependency)
	assert.False(t, v.ShouldProceed)
	assert.Equal(t, []string{
		ConcernHarm,
		ConcernDeception,
		ConcernDependency,
		ConcernDignity,
		ConcernBias,
	}, v.Concerns)
}

func TestDependencyEscalatesFromHistory(t *testing.T) {
	g := NewGuardian()

	build := func(shortcutN, otherN int) *memory.UserMemory {
		m := memory.NewUserMemory("u1")
		for i := 0; i < shortcutN; i++ {
			m.Apply(memory.Delta{Surface: "Shortcut-seeking complete solution", Score: 30, When: time.Now()})
		}
		for i := 0; i < otherN; i++ {
			m.Apply(memory.Delta{Surface: "Request for understanding/learning", Score: 50, When: time.Now()})
		}
		return m
	}

	t.Run("over threshold", func(t *testing.T) {
		// 8 of 11 shortcut-like entries, more than 10 interactions.
		v := g.Evaluate(intentWithFlags(), build(8, 3))
		assert.True(t, v.CreatesDependency)
		assert.True(t, v.ShouldProceed)
	})

	t.Run("too few interactions", func(t *testing.T) {
		v := g.Evaluate(intentWithFlags(), build(5, 1))
		assert.False(t, v.CreatesDependency)
	})

	t.Run("under ratio", func(t *testing.T) {
		v := g.Evaluate(intentWithFlags(), build(5, 7))
		assert.False(t, v.CreatesDependency)
	})

	t.Run("write-heavy history counts", func(t *testing.T) {
		m := memory.NewUserMemory("u2")
		for i := 0; i < 11; i++ {
			m.Apply(memory.Delta{Surface: "write my assignment", Score: 30, When: time.Now()})
		}
		v := g.Evaluate(intentWithFlags(), m)
		assert.True(t, v.CreatesDependency)
	})
}

func TestRedirectPriorityOrder(t *testing.T) {
	g := NewGuardian()

	t.Run("harm outranks everything", func(t *testing.T) {
		v := g.Evaluate(intentWithFlags(types.FlagBias, types.FlagDeception, types.FlagHarm), nil)
		require.False(t, v.ShouldProceed)
		assert.Contains(t, v.RedirectSuggestion, "may cause harm")
	})

	t.Run("deception before dignity", func(t *testing.T) {
		v := g.Evaluate(intentWithFlags(types.FlagCoercion, types.FlagDeception), nil)
		assert.Contains(t, v.RedirectSuggestion, "deception")
	})

	t.Run("dignity before bias", func(t *testing.T) {
		v := g.Evaluate(intentWithFlags(types.FlagBias, types.FlagCoercion), nil)
		assert.Contains(t, v.RedirectSuggestion, "pressure or coercion")
	})

	t.Run("bias alone", func(t *testing.T) {
		v := g.Evaluate(intentWithFlags(types.FlagBias), nil)
		assert.Contains(t, v.RedirectSuggestion, "stereotyping or discrimination")
	})
}

func TestRedirectForGenericFallback(t *testing.T) {
	assert.Equal(t, redirectGeneric, redirectFor([]string{"something unmapped"}))
}

func TestEvaluateIsPure(t *testing.T) {
	g := NewGuardian()
	m := memory.NewUserMemory("u1")
	m.Apply(memory.Delta{Surface: "s", Score: 40, When: time.Now()})

	_ = g.Evaluate(intentWithFlags(types.FlagHarm), m)
	assert.Equal(t, 1, m.InteractionCount)
	assert.Len(t, m.RequestHistory, 1)
}
