package services

import (
	context2 "context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/requiem-ai/hfchat/llm"
	"github.com/rs/zerolog/log"
)

const (
	botPrefix     = "🤖 Bot: "
	warningPrefix = "⚠️ "
)

// Outcome is the result of one request/response exchange.
type Outcome struct {
	Response llm.Response
	Err      error
	// Reply is nil unless the request returned a 2xx status.
	Reply llm.Reply
	// Text is the line shown to the user.
	Text string
}

// IsExit reports whether input ends the session. input must already be trimmed.
func IsExit(input string) bool {
	return strings.EqualFold(input, "exit")
}

// RunTurn sends input and renders whatever comes back. It never fails: every
// error class becomes a printable Outcome.
func RunTurn(ctx context2.Context, client llm.Client, input string) Outcome {
	resp, err := client.Send(ctx, llm.Request{Inputs: input})
	if err != nil {
		log.Warn().Err(err).Str("kind", string(llm.KindOf(err))).Str("client", client.ID()).Msg("request failed")
		return Outcome{Err: err, Text: renderError(err)}
	}

	if !resp.OK() {
		log.Warn().Int("status", resp.StatusCode).Str("client", client.ID()).Msg("non-success status")
		return Outcome{Response: resp, Text: renderStatus(resp)}
	}

	reply := llm.Classify(resp.Body)
	return Outcome{Response: resp, Reply: reply, Text: RenderReply(reply)}
}

// RenderReply formats each response shape for display.
func RenderReply(reply llm.Reply) string {
	switch r := reply.(type) {
	case llm.ErrorObject:
		return warningPrefix + "API error: " + r.Message
	case llm.UnknownObject:
		return warningPrefix + "Unknown JSON response: " + r.Raw
	case llm.CompletionArray:
		return botPrefix + r.Text
	case llm.PlainText:
		return botPrefix + r.Body
	default:
		return fmt.Sprintf("%sUnhandled response shape %T", warningPrefix, reply)
	}
}

func renderError(err error) string {
	var reqErr *llm.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("%sRequest error (%s): %v", warningPrefix, reqErr.Kind, reqErr.Err)
	}
	return warningPrefix + "Request error: " + err.Error()
}

func renderStatus(resp llm.Response) string {
	status := resp.Status
	if status == "" {
		status = strconv.Itoa(resp.StatusCode)
	}
	return fmt.Sprintf("%sRequest failed: HTTP %s - %s", warningPrefix, status, resp.Body)
}
