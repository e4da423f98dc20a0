package app

import (
	"context"
	"log"
	"sync"

	"realtimeChat/configs"
	"realtimeChat/internal/broker"
	"realtimeChat/internal/consumers"
	"realtimeChat/internal/handlers"
	"realtimeChat/internal/hub"
	"realtimeChat/internal/repositories"
	"realtimeChat/internal/servers/database"
	"realtimeChat/internal/servers/http"
	"realtimeChat/internal/services"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.configs = configs.GetConfig()

	db := database.GetDB(app.configs)

	rabbit, err := broker.NewRabbitMQBroker(app.configs.Viper.GetString("rabbitmq.url"))
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}

	authRepo := repositories.NewAuthenticationRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	authService := services.NewAuthenticationService(authRepo, app.configs)
	chatService := services.NewChatService(chatRepo, authRepo, rabbit)

	presenceHub := hub.NewPresenceHub()
	socketHandler := handlers.NewSocketChatHandler(app.ctx, presenceHub, chatService, authService)
	restHandler := handlers.NewRestHandler(authService, chatService)

	consumer := consumers.NewChatConsumer(app.ctx, rabbit, socketHandler)
	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	http.NewHttpServer(
		app.ctx,
		app.configs,
		authService,
		restHandler,
		socketHandler,
		presenceHub.CloseAll,
		func() {
			if err := rabbit.Close(); err != nil {
				log.Printf("Error closing broker connection: %v", err)
			}
		},
	).Run()
}
