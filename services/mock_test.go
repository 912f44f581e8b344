package services

import (
	"context"

	"github.com/requiem-ai/hfchat/llm"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) ID() string {
	return "mock"
}

func (m *MockClient) Send(ctx context.Context, req llm.Request) (llm.Response, error) {
	args := m.Called(req)
	return args.Get(0).(llm.Response), args.Error(1)
}

func okResponse(body string) llm.Response {
	return llm.Response{StatusCode: 200, Status: "200 OK", Body: body}
}
