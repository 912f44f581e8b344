package context

import (
	context2 "context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Context is a small service wrapper that handles the startup/shutdown of the service
// Services are stored in the order passed to it, as slices dont preserve order maps are used.
// Provides cross-service access while still maintaining separation of concerns
type Context struct {
	startOrder map[int]string
	serviceMap map[string]Service

	base   context2.Context
	cancel context2.CancelFunc
}

// NewCtx Create a new context containing the given services.
func NewCtx(svcs ...Service) (*Context, error) {
	base, cancel := context2.WithCancel(context2.Background())
	ctx := Context{
		startOrder: make(map[int]string, len(svcs)),
		serviceMap: make(map[string]Service, len(svcs)),
		base:       base,
		cancel:     cancel,
	}

	for _, s := range svcs {
		if err := ctx.Register(s); err != nil {
			cancel()
			return nil, err
		}
	}

	return &ctx, nil
}

// Register a new service into the context and preseve the order passed
func (ctx *Context) Register(service Service) error {
	if _, ok := ctx.serviceMap[service.Id()]; ok {
		return fmt.Errorf("service %s already registered", service.Id())
	}

	currLen := len(ctx.serviceMap) //Starts from 0

	ctx.startOrder[currLen] = service.Id()
	ctx.serviceMap[service.Id()] = service

	return nil
}

// Service Returns the pointer to the given service.
// Note: once returned the service must be cast to the correct service
// Example: ctx.Service(INFERENCE_SVC).(*InferenceService)
func (ctx *Context) Service(id string) Service {
	return ctx.serviceMap[id]
}

// Base is cancelled once Shutdown has run.
func (ctx *Context) Base() context2.Context {
	return ctx.base
}

// Run Starts the context
// Each service is configured first, if any fail here the context will bail out
// Each service is started, if any fail here the context will bail out
// Run returns once every Start has returned.
func (ctx *Context) Run() error {
	defer ctx.cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("Received signal. Shutting down")
			ctx.Shutdown()
		case <-ctx.base.Done():
		}
	}()

	for i := 0; i < len(ctx.startOrder); i++ {
		svcId := ctx.startOrder[i]

		if err := ctx.Configure(ctx.serviceMap[svcId]); err != nil {
			log.Error().Err(err).Str("service", svcId).Msg("Context Configure Error")
			return err
		}
	}

	for i := 0; i < len(ctx.startOrder); i++ {
		svcId := ctx.startOrder[i]

		if err := ctx.Start(ctx.serviceMap[svcId]); err != nil {
			log.Error().Err(err).Str("service", svcId).Msg("Context Start Error")
			return err
		}
	}

	return nil
}

// Shutdown stops every service in reverse start order and cancels Base.
func (ctx *Context) Shutdown() {
	for i := len(ctx.startOrder) - 1; i >= 0; i-- {
		svcId := ctx.startOrder[i]
		log.Info().Str("service", svcId).Msg("Shutting down")
		ctx.serviceMap[svcId].Shutdown()
	}
	ctx.cancel()
}

// Configure the given service
func (ctx *Context) Configure(svc Service) error {
	log.Debug().Str("service", svc.Id()).Msg("Context Configure")

	if err := svc.Configure(ctx); err != nil {
		return err
	}

	return nil
}

// Start the given service
func (ctx *Context) Start(svc Service) error {
	log.Debug().Str("service", svc.Id()).Msg("Context Start")

	if err := svc.Start(); err != nil {
		return err
	}

	return nil
}

func (ctx *Context) Services() []string {
	var keys []string
	for k := range ctx.serviceMap {
		keys = append(keys, k)
	}

	return keys
}
