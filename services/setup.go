package services

import (
	"github.com/requiem-ai/hfchat/config"
	"github.com/requiem-ai/hfchat/context"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupService loads the configuration every other service reads. A missing
// credential fails Configure, which stops the context before any I/O.
type SetupService struct {
	context.DefaultService

	Overrides config.Overrides

	cfg config.Config
}

const SETUP_SVC = "setup_svc"

func (svc SetupService) Id() string {
	return SETUP_SVC
}

func (svc *SetupService) Configure(ctx *context.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	cfg, err := config.Load(svc.Overrides)
	if err != nil {
		return err
	}
	svc.cfg = cfg

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Debug().
		Str("endpoint", cfg.Endpoint).
		Dur("timeout", cfg.Timeout).
		Bool("show_raw", cfg.ShowRaw).
		Msg("configuration loaded")

	return nil
}

func (svc *SetupService) Config() config.Config {
	return svc.cfg
}
