package moderator

import (
	"ReferralHub/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

// Deps is everything a moderator handler may need.
type Deps struct {
	Wallet      ports.WalletService
	Users       ports.UserRepository
	Bot         ports.BotClientPort
	Bus         ports.EventBus
	AdminChatID int64
}

// Subscriber reacts to a domain event published on the bus.
type Subscriber interface {
	Topic() string
	Handle(ctx context.Context, event ports.Event) error
}

type CommandHandlerConstructor func(deps Deps, baseLogger *zerolog.Logger) ports.CommandHandler

type CallbackHandlerConstructor func(deps Deps, baseLogger *zerolog.Logger) ports.CallbackHandler

type SubscriberConstructor func(deps Deps, baseLogger *zerolog.Logger) Subscriber

var (
	commandRegistry    []CommandHandlerConstructor
	callbackRegistry   []CallbackHandlerConstructor
	subscriberRegistry []SubscriberConstructor
)

func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

func RegisterCallback(constructor CallbackHandlerConstructor) {
	callbackRegistry = append(callbackRegistry, constructor)
}

// RegisterSubscriber adds a handler that is subscribed to the event bus
// when the bot starts.
func RegisterSubscriber(constructor SubscriberConstructor) {
	subscriberRegistry = append(subscriberRegistry, constructor)
}

// RegisterAllHandlers builds every registered handler and attaches it to
// the router or the bus.
func RegisterAllHandlers(deps Deps, router *ModeratorRouter, baseLogger *zerolog.Logger) {
	log := baseLogger.With().Str("component", "moderator_registry").Logger()

	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps, baseLogger))
	}
	for _, constructor := range callbackRegistry {
		router.RegisterCallbackHandler(constructor(deps, baseLogger))
	}
	for _, constructor := range subscriberRegistry {
		sub := constructor(deps, baseLogger)
		deps.Bus.Subscribe(sub.Topic(), sub.Handle)
		log.Info().Str("topic", sub.Topic()).Msg("Subscribed moderator handler")
	}
}
