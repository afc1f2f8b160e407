package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/sashabaranov/go-openai"
)

type mockChatAPI struct {
	calls    int
	requests []openai.ChatCompletionRequest
	response openai.ChatCompletionResponse
	errs     []error
}

func (m *mockChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.requests = append(m.requests, req)
	var err error
	if m.calls < len(m.errs) {
		err = m.errs[m.calls]
	}
	m.calls++
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return m.response, nil
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func testChatClient(api ChatAPI) *Client {
	return &Client{
		api:         api,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		timeout:     time.Second,
		maxRetries:  2,
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{APIKey: "gsk-test"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, client.model)
	assert.InDelta(t, DefaultTemperature, client.temperature, 1e-6)
	assert.Equal(t, DefaultMaxTokens, client.maxTokens)
}

func TestComplete_SendsSystemAndUserMessages(t *testing.T) {
	api := &mockChatAPI{response: chatResponse("the answer")}
	client := testChatClient(api)

	answer, err := client.Complete(context.Background(), "you are helpful", "what is RAG?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, DefaultModel, req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	assert.Equal(t, 1000, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "you are helpful", req.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
	assert.Equal(t, "what is RAG?", req.Messages[1].Content)
}

func TestComplete_RetriesThenSucceeds(t *testing.T) {
	api := &mockChatAPI{
		response: chatResponse("recovered"),
		errs:     []error{errors.New("timeout"), nil},
	}
	client := testChatClient(api)

	answer, err := client.Complete(context.Background(), "system", "question")
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Equal(t, 2, api.calls)
}

func TestComplete_NoChoicesIsPermanent(t *testing.T) {
	api := &mockChatAPI{response: openai.ChatCompletionResponse{}}
	client := testChatClient(api)

	_, err := client.Complete(context.Background(), "system", "question")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoChoices)
	assert.Equal(t, 1, api.calls)
}
