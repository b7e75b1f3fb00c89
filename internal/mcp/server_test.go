package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnd-advisor/internal/common/logger"
	"lnd-advisor/internal/lnd"
	"lnd-advisor/internal/query"
	"lnd-advisor/internal/query/intent"
	"lnd-advisor/internal/query/summary"
)

func runServer(t *testing.T, input string) []Message {
	gateway := lnd.NewMockGateway()
	handler := query.NewHandler(gateway, summary.DefaultHealthCriteria(), nil, nil, logger.NewTestLogger(t))
	var out bytes.Buffer

	server := NewServer(strings.NewReader(input), &out, intent.NewParser(), handler, "lnd-advisor", "test", logger.NewTestLogger(t))
	require.NoError(t, server.Serve(context.Background()))

	var responses []Message
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var msg Message
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		responses = append(responses, msg)
	}
	return responses
}

func TestServer_Initialize(t *testing.T) {
	responses := runServer(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`+"\n")

	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	result, ok := responses[0].Result.(map[string]interface{})
	require.True(t, ok)
	info := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "lnd-advisor", info["name"])
	assert.Equal(t, protocolVersion, result["protocolVersion"])
}

func TestServer_ToolsList(t *testing.T) {
	responses := runServer(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`+"\n")

	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	result := responses[0].Result.(map[string]interface{})
	tools := result["tools"].([]interface{})
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]interface{})
	assert.Equal(t, toolQueryChannels, tool["name"])
	assert.NotNil(t, tool["inputSchema"])
}

func TestServer_CallTool(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"queryChannels","arguments":{"query":"list my channels"}}}` + "\n"
	responses := runServer(t, input)

	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	result := responses[0].Result.(map[string]interface{})
	content := result["content"].([]interface{})
	require.Len(t, content, 2)

	text := content[0].(map[string]interface{})["text"].(string)
	assert.Contains(t, text, "4 channels")

	// The second block is the machine-readable result.
	var parsed map[string]interface{}
	payload := content[1].(map[string]interface{})["text"].(string)
	require.NoError(t, json.Unmarshal([]byte(payload), &parsed))
	assert.Equal(t, "channel_list", parsed["type"])
}

func TestServer_CallTool_SchemaValidation(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "missing query", args: `{}`},
		{name: "wrong type", args: `{"query":12}`},
		{name: "empty query", args: `{"query":""}`},
		{name: "extra property", args: `{"query":"list channels","verbose":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"queryChannels","arguments":` + tt.args + `}}` + "\n"
			responses := runServer(t, input)

			require.Len(t, responses, 1)
			require.NotNil(t, responses[0].Error)
			assert.Equal(t, InvalidParams, responses[0].Error.Code)
		})
	}
}

func TestServer_CallTool_UnknownTool(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"openChannel","arguments":{}}}` + "\n"
	responses := runServer(t, input)

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, MethodNotFound, responses[0].Error.Code)
}

func TestServer_MalformedInputDoesNotStopServing(t *testing.T) {
	input := "this is not json\n" +
		`{"jsonrpc":"2.0","id":6,"method":"tools/list"}` + "\n"
	responses := runServer(t, input)

	require.Len(t, responses, 2)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ParseError, responses[0].Error.Code)
	assert.Nil(t, responses[1].Error)
}

func TestServer_NotificationsGetNoResponse(t *testing.T) {
	input := `{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
		`{"jsonrpc":"2.0","id":7,"method":"tools/list"}` + "\n"
	responses := runServer(t, input)

	require.Len(t, responses, 1)
	assert.Nil(t, responses[0].Error)
}

func TestServer_UnknownMethod(t *testing.T) {
	responses := runServer(t, `{"jsonrpc":"2.0","id":8,"method":"resources/list"}`+"\n")

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, MethodNotFound, responses[0].Error.Code)
}
