package service

import (
	"bytes"
	"encoding/json"
	"examdesk_backend/internal/config"
	"examdesk_backend/internal/util"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type AIService struct {
	config config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateQuestionInput 出题请求参数。
type GenerateQuestionInput struct {
	Subject      string
	Grade        string
	Topic        string
	Difficulty   string
	QuestionType string
}

// DraftQuestion AI 生成的题目草稿，仅返回给调用方，不入库。
type DraftQuestion struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer"`
	Explanation  string   `json:"explanation"`
}

// GenerateQuestion 调用 OpenAI 兼容接口生成一道题目草稿。
// 上游失败不重试，直接以 ErrUpstream 上抛。
func (s *AIService) GenerateQuestion(input GenerateQuestionInput) (*DraftQuestion, error) {
	prompt := fmt.Sprintf(
		"请为 %s 年级的 %s 学科出一道 %s 难度的 %s 题，主题：%s。",
		input.Grade, input.Subject, input.Difficulty, input.QuestionType, input.Topic,
	)

	messages := []AIChatMessage{
		{
			Role: "system",
			Content: "你是一个出题助手。只输出严格的 JSON 对象，不要包含任何额外文字或 Markdown 代码块。" +
				`字段：{"question_text": string, "options": [string], "answer": string, "explanation": string}。` +
				"answer 必须与 options 中的某一项逐字一致。",
		},
		{Role: "user", Content: prompt},
	}

	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: AI API status %d: %s", util.ErrUpstream, resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: AI returned no choices", util.ErrUpstream)
	}

	return parseDraft(result.Choices[0].Message.Content)
}

// parseDraft 容忍模型在 JSON 外包一层 Markdown 代码块。
func parseDraft(content string) (*DraftQuestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var draft DraftQuestion
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("%w: malformed AI response: %v", util.ErrUpstream, err)
	}
	return &draft, nil
}
