package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/moodtales/internal/utils"
)

const responseSchemaName = "structured_output"

// buildOpenAIParams converts an ADK request to chat completion parameters.
func buildOpenAIParams(req *model.LLMRequest, modelName string) (*openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model: req.Model,
	}
	if req.Model == "" {
		params.Model = modelName
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.Config != nil && req.Config.SystemInstruction != nil {
		if text := utils.ExtractContentText(req.Config.SystemInstruction); text != "" {
			messages = append(messages, openai.SystemMessage(text))
		}
	}
	messages = append(messages, convertContentsToMessages(req.Contents)...)
	if len(messages) == 0 {
		return nil, fmt.Errorf("request has no messages")
	}
	params.Messages = messages

	if req.Config == nil {
		return &params, nil
	}

	cfg := req.Config
	if cfg.Temperature != nil {
		params.Temperature = openai.Float(float64(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		params.TopP = openai.Float(float64(*cfg.TopP))
	}
	if cfg.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(cfg.MaxOutputTokens))
	}
	if cfg.CandidateCount > 1 {
		params.N = openai.Int(int64(cfg.CandidateCount))
	}
	if cfg.FrequencyPenalty != nil && *cfg.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openai.Float(float64(*cfg.FrequencyPenalty))
	}
	if len(cfg.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: cfg.StopSequences}
	}

	if cfg.ResponseJsonSchema != nil {
		schema, err := schemaToMap(cfg.ResponseJsonSchema)
		if err != nil {
			return nil, err
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   responseSchemaName,
					Schema: schema,
				},
			},
		}
	} else if strings.EqualFold(cfg.ResponseMIMEType, "application/json") {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	return &params, nil
}

// schemaToMap normalizes any JSON schema value (jsonschema.Schema, map, raw
// JSON) into the generic map the chat completions API expects.
func schemaToMap(schema any) (map[string]any, error) {
	if m, ok := schema.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response schema: %w", err)
	}
	return out, nil
}

// convertContentsToMessages converts genai contents to chat messages.
func convertContentsToMessages(contents []*genai.Content) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	for _, content := range contents {
		if content == nil {
			continue
		}
		text := utils.ExtractContentText(content)

		switch content.Role {
		case "model", "assistant":
			messages = append(messages, openai.AssistantMessage(text))
		case "system":
			messages = append(messages, openai.SystemMessage(text))
		default:
			messages = append(messages, openai.UserMessage(text))
		}
	}

	return messages
}
