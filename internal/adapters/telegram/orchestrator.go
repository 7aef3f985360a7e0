package telegram

import (
	"ReferralHub/internal/bot/moderator"
	_ "ReferralHub/internal/bot/moderator/handlers"
	"ReferralHub/internal/core/ports"
	"ReferralHub/internal/shared/config"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Orchestrator wires and runs the moderator bot.
type Orchestrator struct {
	cfg        config.BotConfig
	debug      bool
	wallet     ports.WalletService
	users      ports.UserRepository
	bus        ports.EventBus
	baseLogger *zerolog.Logger
}

func NewOrchestrator(
	cfg *config.Config,
	wallet ports.WalletService,
	users ports.UserRepository,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg.Bot,
		debug:      cfg.IsDev(),
		wallet:     wallet,
		users:      users,
		bus:        bus,
		baseLogger: baseLogger,
	}
}

// Enabled reports whether a bot token is configured.
func (o *Orchestrator) Enabled() bool {
	return o.cfg.Token != ""
}

// Start connects to Telegram, subscribes the moderator handlers to the
// event bus and polls until ctx is cancelled. Without a token it returns
// immediately.
func (o *Orchestrator) Start(ctx context.Context) error {
	log := o.baseLogger.With().Str("bot", "moderator").Logger()
	if !o.Enabled() {
		log.Info().Msg("No moderator bot token configured, bot disabled")
		return nil
	}

	api, err := tgbotapi.NewBotAPI(o.cfg.Token)
	if err != nil {
		return fmt.Errorf("connect moderator bot: %w", err)
	}
	api.Debug = o.debug
	log.Info().Str("username", api.Self.UserName).Msg("Bot API connected")

	client := NewClient(api, &log)
	router := moderator.NewModeratorRouter(o.users, client, &log)
	moderator.RegisterAllHandlers(moderator.Deps{
		Wallet:      o.wallet,
		Users:       o.users,
		Bot:         client,
		Bus:         o.bus,
		AdminChatID: o.cfg.AdminChatID,
	}, router, &log)

	if err := client.SetMenuCommands(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to set bot menu")
	}

	return NewBotServer(api, router, o.cfg.WorkerPoolSize, &log).Start(ctx)
}
