package services

import (
	"bufio"
	context2 "context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/requiem-ai/hfchat/context"
	"github.com/rs/zerolog/log"
)

const (
	banner   = "🤖 Hugging Face Chatbot"
	hint     = "Type 'exit' to quit."
	prompt   = "\n💬 You: "
	farewell = "👋 Goodbye!"
)

type State int

const (
	AwaitingInput State = iota
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ConsoleService runs the interactive prompt loop on stdin/stdout.
type ConsoleService struct {
	context.DefaultService

	In  io.Reader
	Out io.Writer

	inference *InferenceService
	showRaw   bool

	mu     sync.Mutex
	state  State
	cancel context2.CancelFunc
}

const CONSOLE_SVC = "console_svc"

func (svc *ConsoleService) Id() string {
	return CONSOLE_SVC
}

func (svc *ConsoleService) Configure(ctx *context.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	inference, ok := svc.Service(INFERENCE_SVC).(*InferenceService)
	if !ok {
		return errors.New("inference service not registered")
	}
	svc.inference = inference

	if setup, ok := svc.Service(SETUP_SVC).(*SetupService); ok {
		svc.showRaw = setup.Config().ShowRaw
	}

	if svc.In == nil {
		svc.In = os.Stdin
	}
	if svc.Out == nil {
		svc.Out = os.Stdout
	}

	return nil
}

// Start blocks until the user exits, input ends or the context shuts down.
func (svc *ConsoleService) Start() error {
	runCtx, cancel := context2.WithCancel(svc.Context().Base())
	svc.mu.Lock()
	svc.cancel = cancel
	svc.state = AwaitingInput
	svc.mu.Unlock()
	defer cancel()

	fmt.Fprintln(svc.Out, banner)
	fmt.Fprintln(svc.Out, hint)

	lines := readLines(runCtx, svc.In)

	for {
		fmt.Fprint(svc.Out, prompt)

		line, ok := svc.next(runCtx, lines)
		if !ok {
			fmt.Fprintln(svc.Out)
			svc.terminate()
			return nil
		}

		input := strings.TrimSpace(line)
		if IsExit(input) {
			svc.terminate()
			return nil
		}
		if input == "" {
			continue
		}

		outcome := svc.inference.Run(runCtx, input)
		if runCtx.Err() != nil {
			fmt.Fprintln(svc.Out)
			svc.terminate()
			return nil
		}

		if svc.showRaw && outcome.Reply != nil {
			fmt.Fprintf(svc.Out, "\n🔍 Raw response:\n%s\n\n", outcome.Response.Body)
		}
		fmt.Fprintln(svc.Out, outcome.Text)
	}
}

func (svc *ConsoleService) Shutdown() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.cancel != nil {
		svc.cancel()
	}
}

func (svc *ConsoleService) State() State {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.state
}

func (svc *ConsoleService) terminate() {
	fmt.Fprintln(svc.Out, farewell)
	svc.mu.Lock()
	svc.state = Terminated
	svc.mu.Unlock()
	log.Debug().Msg("console session terminated")
}

func (svc *ConsoleService) next(ctx context2.Context, lines <-chan string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-lines:
		return line, ok
	}
}

// readLines feeds r line by line until EOF or ctx is done. Lines have no
// length limit; a final line without a newline is still delivered.
func readLines(ctx context2.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)

		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Error().Err(err).Msg("failed to read input")
				}
				return
			}
		}
	}()
	return lines
}
