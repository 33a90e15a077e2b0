package chatapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"chatbot/common"
	"chatbot/log"

	openai "github.com/sashabaranov/go-openai"
)

const UserRole = openai.ChatMessageRoleUser

// Client sends single-turn prompts to an OpenAI-compatible chat completion
// endpoint. Gemini is reached through its OpenAI compatibility base URL.
type Client struct {
	provider  string
	model     string
	gptClient *openai.Client
}

func NewClient(provider, apiKey, baseURL, model string) *Client {
	conf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		conf.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		provider:  provider,
		model:     model,
		gptClient: openai.NewClientWithConfig(conf),
	}
}

func (c *Client) Name() string { return c.provider }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	log.Debug("sending prompt", "provider", c.provider, "model", c.model)
	resp, err := c.gptClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: UserRole, Content: prompt},
		},
	})
	if err != nil {
		return "", c.upstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &common.UpstreamGenerationError{Provider: c.provider, Detail: "no answer choice"}
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &common.UpstreamGenerationError{
			Provider: c.provider,
			Detail:   "empty completion, finish reason " + string(resp.Choices[0].FinishReason),
		}
	}
	return text, nil
}

func (c *Client) upstreamError(err error) error {
	e := &common.UpstreamGenerationError{Provider: c.provider, Detail: err.Error(), Err: err}
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		e.Status = apiErr.HTTPStatusCode
		e.Detail = apiErr.Message
	case errors.As(err, &reqErr):
		e.Status = reqErr.HTTPStatusCode
	case errors.Is(err, context.DeadlineExceeded):
		e.Status = http.StatusGatewayTimeout
		e.Detail = "timed out waiting for completion"
	}
	return e
}
