package services

import (
	context2 "context"
	"errors"

	"github.com/requiem-ai/hfchat/context"
	"github.com/requiem-ai/hfchat/llm"
)

// InferenceService owns the one llm.Client used for the life of the process.
type InferenceService struct {
	context.DefaultService

	client llm.Client
}

const INFERENCE_SVC = "inference_svc"

func (svc InferenceService) Id() string {
	return INFERENCE_SVC
}

func (svc *InferenceService) Configure(ctx *context.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	// a client injected before Configure is kept
	if svc.client != nil {
		return nil
	}

	setup, ok := svc.Service(SETUP_SVC).(*SetupService)
	if !ok {
		return errors.New("setup service not registered")
	}
	cfg := setup.Config()

	httpClient, err := llm.NewHTTPClient(cfg.Timeout)
	if err != nil {
		return err
	}
	svc.client = llm.NewHuggingFaceClient(cfg.APIKey, cfg.Endpoint, httpClient)

	return nil
}

// WithClient injects a client, replacing the Hugging Face default.
func (svc *InferenceService) WithClient(client llm.Client) *InferenceService {
	svc.client = client
	return svc
}

func (svc *InferenceService) Client() llm.Client {
	return svc.client
}

func (svc *InferenceService) Run(ctx context2.Context, msg string) Outcome {
	return RunTurn(ctx, svc.client, msg)
}
