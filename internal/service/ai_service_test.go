package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"examdesk_backend/internal/config"
	"examdesk_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aiConfigFor(server *httptest.Server) config.AIConfig {
	return config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	}
}

func chatResponse(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return body
}

func TestGenerateQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)

		w.Write(chatResponse(
			`{"question_text":"What is 2+2?","options":["3","4"],"answer":"4","explanation":"basic arithmetic"}`,
		))
	}))
	defer server.Close()

	svc := NewAIService(aiConfigFor(server))
	draft, err := svc.GenerateQuestion(GenerateQuestionInput{
		Subject: "Mathematics", Grade: "Grade 9", Topic: "arithmetic",
		Difficulty: "easy", QuestionType: "mcq",
	})
	require.NoError(t, err)
	assert.Equal(t, "What is 2+2?", draft.QuestionText)
	assert.Equal(t, []string{"3", "4"}, draft.Options)
	assert.Equal(t, "4", draft.Answer)
}

func TestGenerateQuestionStripsMarkdownFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(
			"```json\n{\"question_text\":\"q\",\"options\":[\"a\"],\"answer\":\"a\",\"explanation\":\"e\"}\n```",
		))
	}))
	defer server.Close()

	svc := NewAIService(aiConfigFor(server))
	draft, err := svc.GenerateQuestion(GenerateQuestionInput{Subject: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "q", draft.QuestionText)
}

func TestGenerateQuestionUpstreamFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := NewAIService(aiConfigFor(server)).GenerateQuestion(GenerateQuestionInput{})
		assert.ErrorIs(t, err, util.ErrUpstream)
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		_, err := NewAIService(aiConfigFor(server)).GenerateQuestion(GenerateQuestionInput{})
		assert.ErrorIs(t, err, util.ErrUpstream)
	})

	t.Run("malformed draft", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(chatResponse("sorry, I cannot help with that"))
		}))
		defer server.Close()

		_, err := NewAIService(aiConfigFor(server)).GenerateQuestion(GenerateQuestionInput{})
		assert.ErrorIs(t, err, util.ErrUpstream)
	})
}
