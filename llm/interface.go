package llm

import "context"

type Request struct {
	Inputs string `json:"inputs"`
}

// Response is the raw HTTP outcome of a request. Body is read in full.
type Response struct {
	StatusCode int
	Status     string
	Body       string
}

// OK reports whether the status code is 2xx.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Client interface {
	ID() string
	Send(ctx context.Context, req Request) (Response, error)
}
