package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dermascan/internal/client/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_SendsSystemPriorAndNewTurns(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"drink water"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "key-123", "test-model", 5*time.Second, testLogger())
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "is it serious?"},
		{Role: models.RoleAssistant, Content: "see a doctor"},
	}

	reply, err := c.Complete(context.Background(), "Acne", history, "what should I eat?")
	require.NoError(t, err)
	assert.Equal(t, "drink water", reply)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, models.RoleSystem, got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Acne")
	assert.Equal(t, "is it serious?", got.Messages[1].Content)
	assert.Equal(t, "what should I eat?", got.Messages[3].Content)
}

func TestComplete_ErrorStatus_IsChatFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "", "m", 5*time.Second, testLogger())
	_, err := c.Complete(context.Background(), "Acne", nil, "hi")
	assert.ErrorIs(t, err, ErrChatFailed)
}

func TestComplete_EmptyChoices_IsChatFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "", "m", 5*time.Second, testLogger())
	_, err := c.Complete(context.Background(), "Acne", nil, "hi")
	assert.ErrorIs(t, err, ErrChatFailed)
}

func TestComplete_MalformedBody_IsChatFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "", "m", 5*time.Second, testLogger())
	_, err := c.Complete(context.Background(), "Acne", nil, "hi")
	assert.ErrorIs(t, err, ErrChatFailed)
}

func TestComplete_Unreachable_IsChatFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewChatClient(srv.URL, "", "m", time.Second, testLogger())
	_, err := c.Complete(context.Background(), "Acne", nil, "hi")
	assert.ErrorIs(t, err, ErrChatFailed)
}
