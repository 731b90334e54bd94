//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"venuehub/internal/chat/handler"
	"venuehub/internal/messaging"
	"venuehub/internal/notif"
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideDatabase,
		ProvideMessageStore,
		ProvideProfileDirectory,
		ProvideAggregator,
		ProvideEventManager,
		wire.Bind(new(messaging.EventPublisher), new(*notif.EventManager)),
		ProvideService,
		wire.Bind(new(handler.ConversationService), new(*messaging.Service)),
		handler.NewGRPCHandler,
		handler.NewHTTPHandler,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
