package aivet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CheckinObservation is one day's structured observation passed to the
// recovery-summary completion.
type CheckinObservation struct {
	DayIndex      int    `json:"day_index"`
	Appetite      string `json:"appetite"`
	Energy        string `json:"energy"`
	SymptomStatus string `json:"symptom_status"`
}

// RecoverySummary is the structured result of the recovery-summary completion.
type RecoverySummary struct {
	Trend      string `json:"trend"`
	Summary    string `json:"summary"`
	Suggestion string `json:"suggestion"`
}

// FallbackRecoverySummary is the fixed neutral result substituted when the
// model fails to produce a parseable structured object. Plans always complete
// with non-null summary fields.
func FallbackRecoverySummary() RecoverySummary {
	return RecoverySummary{
		Trend:      "stable",
		Summary:    "观察记录已收集完成。建议继续关注宠物状态。",
		Suggestion: "如有异常，请及时就医",
	}
}

const summarySystemPrompt = `你是一位温和、专业的宠物健康观察助手。你的任务是根据主人记录的恢复观察数据，提供一个简短的恢复状态总结。

重要规则：
- 不要给出医学诊断
- 不要建议具体药物
- 保持语言温和、支持性
- 如果趋势不好，建议考虑就医检查
- 总结要简洁，2-3句话即可`

var summaryTool = map[string]interface{}{
	"type": "function",
	"function": map[string]interface{}{
		"name":        "provide_recovery_summary",
		"description": "Provide a structured recovery summary",
		"parameters": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"trend": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"improving", "stable", "worsening"},
					"description": "The overall recovery trend",
				},
				"summary": map[string]interface{}{
					"type":        "string",
					"description": "A 2-3 sentence summary in Chinese",
				},
				"suggestion": map[string]interface{}{
					"type":        "string",
					"description": "Suggestion in Chinese (continue observing or consider vet visit)",
				},
			},
			"required":             []string{"trend", "summary", "suggestion"},
			"additionalProperties": false,
		},
	},
}

var appetiteZH = map[string]string{"normal": "正常", "reduced": "减少", "poor": "很差"}
var energyZH = map[string]string{"normal": "正常", "low": "较低", "very_low": "很低"}
var symptomZH = map[string]string{"improved": "好转", "same": "持平", "worse": "加重"}

func translate(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

// SummarizeRecovery runs one schema-constrained (tool-call) completion over the
// full ordered checkin list and returns the structured trend/summary/suggestion.
// Unlike triage, the response is a single complete object, never streamed.
func (c *Client) SummarizeRecovery(ctx context.Context, petName, mainSymptom string, checkins []CheckinObservation) (*RecoverySummary, error) {
	var lines []string
	for _, ci := range checkins {
		lines = append(lines, fmt.Sprintf("第%d天: 食欲=%s, 精力=%s, 症状=%s",
			ci.DayIndex, translate(appetiteZH, ci.Appetite), translate(energyZH, ci.Energy), translate(symptomZH, ci.SymptomStatus)))
	}

	userPrompt := fmt.Sprintf(`宠物名字：%s
观察的主要症状：%s

恢复观察记录：
%s

请根据以上记录，用JSON格式回复：
{
  "trend": "improving" | "stable" | "worsening",
  "summary": "中文总结，2-3句话",
  "suggestion": "建议（继续观察/考虑就医）"
}`, petName, mainSymptom, strings.Join(lines, "\n"))

	payload := map[string]interface{}{
		"model": c.model,
		"messages": []Message{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"tools":       []interface{}{summaryTool},
		"tool_choice": map[string]interface{}{"type": "function", "function": map[string]string{"name": "provide_recovery_summary"}},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai gateway call: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrQuotaExceeded
	case resp.StatusCode != http.StatusOK:
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ai gateway status %d: %s", resp.StatusCode, data)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				ToolCalls []struct {
					Function struct {
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 || len(result.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("no tool call in response")
	}

	var summary RecoverySummary
	if err := json.Unmarshal([]byte(result.Choices[0].Message.ToolCalls[0].Function.Arguments), &summary); err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	switch summary.Trend {
	case "improving", "stable", "worsening":
	default:
		return nil, fmt.Errorf("unexpected trend %q", summary.Trend)
	}
	if summary.Summary == "" || summary.Suggestion == "" {
		return nil, fmt.Errorf("incomplete summary response")
	}
	return &summary, nil
}
