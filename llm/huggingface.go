package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HuggingFaceClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

const HuggingFaceID = "huggingface"

func NewHuggingFaceClient(apiKey, endpoint string, httpClient *http.Client) *HuggingFaceClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HuggingFaceClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		http:     httpClient,
	}
}

func (c *HuggingFaceClient) ID() string {
	return HuggingFaceID
}

func (c *HuggingFaceClient) Endpoint() string {
	return c.endpoint
}

// Send posts req and returns the status and full body. A non-2xx status is
// not an error; only failures to obtain a response are, as *RequestError.
func (c *HuggingFaceClient) Send(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		reqErr := classifyTransportError(err)
		if reqErr.Kind == KindTransport || errors.Is(err, io.ErrUnexpectedEOF) {
			reqErr.Kind = KindReadBody
		}
		return Response{}, reqErr
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("inference response")

	return Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}, nil
}
