package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type GeminiService struct {
	ApiKey string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{ApiKey: apiKey}
}

// SummarizeEmail asks the model for a short actionable summary of one email
// thread. Stateless; one request, one response.
func (g *GeminiService) SummarizeEmail(ctx context.Context, emailText string) (string, error) {
	url := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key=" + g.ApiKey

	prompt := fmt.Sprintf(`You are an email assistant. Summarize the following email so the reader can decide what to do with it at a glance.

GUIDELINES:
- Line 1: the main point in one short sentence
- Line 2 (only if applicable): "Action: ..." or "Deadline: ..."
- For promotional/spam mail just write "Promotion from [sender]"
- At most 2 lines

EMAIL:
%s

SUMMARY:`, emailText)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	// Parse summary from response
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}
	return "", fmt.Errorf("no summary returned")
}
