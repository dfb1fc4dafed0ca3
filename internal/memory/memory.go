// Package memory holds per-user interaction history and the process-wide
// store that owns it. Memory is in-process and volatile: nothing here
// survives a restart.
package memory

import (
	"time"

	"github.com/oklog/ulid/v2"

	"mvg/internal/types"
)

// Record is one completed interaction in the conversation context.
// IDs are ULIDs so records sort by creation time.
type Record struct {
	ID              string                `json:"id"`
	Query           string                `json:"query"`
	Response        string                `json:"response"`
	CapabilityLevel types.CapabilityLevel `json:"capability_level"`
	CapabilityScore int                   `json:"capability_score"`
	Timestamp       time.Time             `json:"timestamp"`
}

// UserMemory tracks one user's interaction history and capability trend.
// All sequences are append-only; components may read or append but never
// replace the struct.
type UserMemory struct {
	UserID              string
	InteractionCount    int
	RequestHistory      []string
	CapabilityTrend     []int
	TopicExpertise      map[string]int
	LearningProgress    map[string]string
	LastInteraction     time.Time
	ConversationContext []Record
}

// NewUserMemory creates an empty memory for the given user id.
func NewUserMemory(userID string) *UserMemory {
	return &UserMemory{
		UserID:           userID,
		TopicExpertise:   make(map[string]int),
		LearningProgress: make(map[string]string),
	}
}

// Delta is the set of mutations a completed (non-blocked) request applies
// to a user's memory. The response designer produces one; the orchestrator
// applies it. Keeping mutation out of the designer keeps that component
// pure and testable.
type Delta struct {
	Surface string
	Score   int
	When    time.Time
}

// Apply increments the interaction count and appends the request's
// classification and score to the append-only histories.
func (m *UserMemory) Apply(d Delta) {
	m.InteractionCount++
	m.RequestHistory = append(m.RequestHistory, d.Surface)
	m.CapabilityTrend = append(m.CapabilityTrend, d.Score)
	m.LastInteraction = d.When
}

// AppendContext records a completed interaction, assigning it a ULID.
func (m *UserMemory) AppendContext(query, response string, level types.CapabilityLevel, score int, at time.Time) Record {
	rec := Record{
		ID:              ulid.Make().String(),
		Query:           query,
		Response:        response,
		CapabilityLevel: level,
		CapabilityScore: score,
		Timestamp:       at,
	}
	m.ConversationContext = append(m.ConversationContext, rec)
	return rec
}

// RecentSurfaces returns up to the last n entries of the request history.
func (m *UserMemory) RecentSurfaces(n int) []string {
	if m == nil || n <= 0 || len(m.RequestHistory) == 0 {
		return nil
	}
	if len(m.RequestHistory) <= n {
		return m.RequestHistory
	}
	return m.RequestHistory[len(m.RequestHistory)-n:]
}

// RecentTrend returns up to the last n capability scores.
func (m *UserMemory) RecentTrend(n int) []int {
	if m == nil || n <= 0 || len(m.CapabilityTrend) == 0 {
		return nil
	}
	if len(m.CapabilityTrend) <= n {
		return m.CapabilityTrend
	}
	return m.CapabilityTrend[len(m.CapabilityTrend)-n:]
}
