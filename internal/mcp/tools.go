package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	cerrors "lnd-advisor/internal/common/errors"
)

const toolQueryChannels = "queryChannels"

func toolDefinitions() []Tool {
	return []Tool{
		{
			Name:        toolQueryChannels,
			Description: "Answer a natural-language question about the node's payment channels: listing, health, or liquidity.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"minLength":   1,
						"description": "The question, e.g. 'how healthy are my channels?'",
					},
				},
				"required":             []interface{}{"query"},
				"additionalProperties": false,
			},
		},
	}
}

// validateToolInput checks tool arguments against the tool's declared
// schema before anything touches the pipeline.
func validateToolInput(tool Tool, args map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(tool.InputSchema)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		details := ""
		for i, desc := range result.Errors() {
			if i > 0 {
				details += "; "
			}
			details += desc.String()
		}
		return cerrors.NewInvalidToolInputError(details)
	}
	return nil
}

func (s *Server) callTool(ctx context.Context, params CallToolParams) (*CallToolResult, *Error) {
	var tool *Tool
	for i := range s.tools {
		if s.tools[i].Name == params.Name {
			tool = &s.tools[i]
			break
		}
	}
	if tool == nil {
		return nil, &Error{Code: MethodNotFound, Message: fmt.Sprintf("unknown tool: %s", params.Name)}
	}

	if err := validateToolInput(*tool, params.Arguments); err != nil {
		return nil, &Error{Code: InvalidParams, Message: cerrors.Sanitize(err).Details}
	}

	switch params.Name {
	case toolQueryChannels:
		text, _ := params.Arguments["query"].(string)
		in := s.parser.Parse(text)
		result := s.handler.HandleQuery(ctx, in)

		payload, err := json.Marshal(result)
		if err != nil {
			return nil, &Error{Code: InternalError, Message: "failed to encode result"}
		}

		return &CallToolResult{
			Content: []ToolContent{
				{Type: "text", Text: result.Text},
				{Type: "text", Text: string(payload)},
			},
			IsError: result.Err != nil,
		}, nil
	}

	return nil, &Error{Code: MethodNotFound, Message: fmt.Sprintf("unknown tool: %s", params.Name)}
}
