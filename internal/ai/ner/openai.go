package ner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"

	"github.com/resumatch/resumatch/analysis"
)

// OpenAIRecognizer extracts entity mentions through a chat completion
// in JSON mode. Temperature is pinned to zero so repeated calls over
// the same text stay stable.
type OpenAIRecognizer struct {
	client *openai.Client
	model  string
}

func NewOpenAIRecognizer(apiKey, model string) *OpenAIRecognizer {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIRecognizer{
		client: &client,
		model:  model,
	}
}

const recognizerSystemPrompt = `You are a named entity recognizer for recruitment documents. Extract entities from the text and return ONLY valid JSON.`

const recognizerUserPrompt = `Extract entities from the following text in this JSON structure:

{
  "entities": [{
    "text": string (the exact surface form from the text),
    "type": "SKILL" | "EXPERIENCE_LEVEL" | "EDUCATION"
  }]
}

Rules:
- SKILL: technologies, tools, frameworks, languages, methodologies
- EXPERIENCE_LEVEL: seniority or years-of-experience statements
- EDUCATION: degrees and academic requirements
- Use the exact surface form from the text, do not normalize
- Return ONLY the JSON, no explanatory text

Text:
`

type recognizerPayload struct {
	Entities []struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"entities"`
}

// Recognize sends the text through the chat API and maps the reply
// onto typed mentions. Unknown entity types from the model are
// dropped. Empty text yields no mentions, not an error.
func (r *OpenAIRecognizer) Recognize(ctx context.Context, text string) ([]analysis.EntityMention, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(recognizerSystemPrompt),
			openai.UserMessage(recognizerUserPrompt + text),
		},
		Model: r.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat api error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("no response from openai")
	}

	var payload recognizerPayload
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse entities JSON: %w", err)
	}

	mentions := make([]analysis.EntityMention, 0, len(payload.Entities))
	for _, e := range payload.Entities {
		t := analysis.EntityType(e.Type)
		switch t {
		case analysis.EntitySkill, analysis.EntityExperienceLevel, analysis.EntityEducation:
		default:
			continue
		}
		if e.Text == "" {
			continue
		}
		mentions = append(mentions, analysis.EntityMention{Text: e.Text, Type: t})
	}
	return mentions, nil
}
