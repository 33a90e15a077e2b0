package selfdriving

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chatbot/common"
	"chatbot/log"

	"github.com/goccy/go-json"
)

// MaxTimeOut is the per-request ceiling in seconds. The caller's context
// deadline still applies when it is shorter.
const MaxTimeOut = 180

const providerName = "http"

type BSRequest struct {
	Content string     `json:"content"`
	History [][]string `json:"history"`
	Model   string     `json:"model,omitempty"`
}

type BSResponse struct {
	ErrCode  int    `json:"errcode"`
	Response string `json:"response"`
	Ret      int    `json:"ret"`
}

// Client talks to a self-hosted model exposing a JSON completion endpoint.
type Client struct {
	Url       string
	ModelName string
}

func NewClient(url, modelName string) *Client {
	return &Client{Url: url, ModelName: modelName}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := BSRequest{
		Content: prompt,
		History: [][]string{},
		Model:   c.ModelName,
	}
	promptData, err := json.Marshal(&req)
	if err != nil {
		return "", err
	}
	log.Debug("sending prompt", "provider", providerName, "url", c.Url, "model", c.ModelName)
	resp, err := common.HttpPost(ctx, c.Url, promptData, MaxTimeOut, map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		e := &common.UpstreamGenerationError{Provider: providerName, Detail: err.Error(), Err: err}
		var statusErr *common.HTTPStatusError
		if errors.As(err, &statusErr) {
			e.Status = statusErr.StatusCode
		} else if errors.Is(err, context.DeadlineExceeded) {
			e.Status = http.StatusGatewayTimeout
		}
		return "", e
	}
	var bsResp BSResponse
	if err = json.Unmarshal(resp, &bsResp); err != nil {
		return "", &common.UpstreamGenerationError{Provider: providerName, Detail: "decode response: " + err.Error(), Err: err}
	}
	if bsResp.ErrCode != 0 {
		return "", &common.UpstreamGenerationError{
			Provider: providerName,
			Detail:   fmt.Sprintf("errcode %d ret %d", bsResp.ErrCode, bsResp.Ret),
		}
	}
	if strings.TrimSpace(bsResp.Response) == "" {
		return "", &common.UpstreamGenerationError{Provider: providerName, Detail: "empty completion"}
	}
	return bsResp.Response, nil
}
