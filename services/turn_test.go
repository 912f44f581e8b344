package services

import (
	"context"
	"errors"
	"testing"

	"github.com/requiem-ai/hfchat/llm"
	"github.com/stretchr/testify/assert"
)

func TestIsExit(t *testing.T) {
	for _, in := range []string{"exit", "EXIT", "Exit", "eXiT"} {
		assert.True(t, IsExit(in), in)
	}
	for _, in := range []string{"exiting", "quit", "", "exit now", " exit "} {
		assert.False(t, IsExit(in), in)
	}
}

func TestRunTurn(t *testing.T) {
	tests := []struct {
		name      string
		resp      llm.Response
		err       error
		wantText  string
		wantReply llm.Reply
	}{
		{
			name:      "completion",
			resp:      okResponse(`[{"generated_text": "Hello there"}]`),
			wantText:  "🤖 Bot: Hello there",
			wantReply: llm.CompletionArray{Text: "Hello there"},
		},
		{
			name:      "api error",
			resp:      okResponse(`{"error": "model is loading"}`),
			wantText:  "⚠️ API error: model is loading",
			wantReply: llm.ErrorObject{Message: "model is loading"},
		},
		{
			name:      "unknown object",
			resp:      okResponse(`{"warning": "x"}`),
			wantText:  `⚠️ Unknown JSON response: {"warning":"x"}`,
			wantReply: llm.UnknownObject{Raw: `{"warning":"x"}`},
		},
		{
			name:      "plain text",
			resp:      okResponse("plain text reply\n"),
			wantText:  "🤖 Bot: plain text reply",
			wantReply: llm.PlainText{Body: "plain text reply"},
		},
		{
			name:      "broken array",
			resp:      okResponse(`[{"generated_text"`),
			wantText:  "🤖 Bot: " + llm.ArrayParseError,
			wantReply: llm.CompletionArray{Text: llm.ArrayParseError},
		},
		{
			name:     "http failure is not sniffed",
			resp:     llm.Response{StatusCode: 503, Status: "503 Service Unavailable", Body: `[{"generated_text":"no"}]`},
			wantText: `⚠️ Request failed: HTTP 503 Service Unavailable - [{"generated_text":"no"}]`,
		},
		{
			name:     "http failure without status text",
			resp:     llm.Response{StatusCode: 500, Body: "oops"},
			wantText: "⚠️ Request failed: HTTP 500 - oops",
		},
		{
			name:     "classified transport error",
			err:      &llm.RequestError{Kind: llm.KindTimeout, Err: context.DeadlineExceeded},
			wantText: "⚠️ Request error (timeout): context deadline exceeded",
		},
		{
			name:     "plain error",
			err:      errors.New("bad url"),
			wantText: "⚠️ Request error: bad url",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := new(MockClient)
			client.On("Send", llm.Request{Inputs: "hi"}).Return(tc.resp, tc.err)

			outcome := RunTurn(context.Background(), client, "hi")

			assert.Equal(t, tc.wantText, outcome.Text)
			assert.Equal(t, tc.wantReply, outcome.Reply)
			assert.Equal(t, tc.err, outcome.Err)
			client.AssertExpectations(t)
		})
	}
}

type unknownReply struct{ llm.PlainText }

func TestRenderReply_Unhandled(t *testing.T) {
	assert.Contains(t, RenderReply(unknownReply{}), "Unhandled response shape")
	assert.Contains(t, RenderReply(nil), "Unhandled response shape")
}
