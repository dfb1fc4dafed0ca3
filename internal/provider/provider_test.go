package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEchoesPromptByDefault(t *testing.T) {
	m := NewMock()
	got, err := m.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, []string{"hello"}, m.Prompts())
}

func TestMockFixedReplyAndError(t *testing.T) {
	m := NewMock()
	m.SetReply("canned")
	got, err := m.Complete(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "canned", got)

	m.SetError(errors.New("boom"))
	_, err = m.Complete(context.Background(), "again")
	assert.Error(t, err)
	assert.Len(t, m.Prompts(), 2)
}

func TestMockHonorsCancelledContext(t *testing.T) {
	m := NewMock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Complete(ctx, "late")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Prompts())
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		resp := map[string]any{
			"id": "cmpl-1",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  polished text  "}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "polish this")
	require.NoError(t, err)
	assert.Equal(t, "polished text", got)
}

func TestOpenAICompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "model overloaded", "type": "server_error"},
		})
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "cmpl-2", "choices": []any{}})
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion returned")
}

func TestOpenAICompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
