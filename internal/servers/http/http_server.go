package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"realtimeChat/configs"
	"realtimeChat/internal/handlers"

	"github.com/gin-gonic/gin"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	verifier      handlers.TokenVerifier
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketChatHandler
	onShutdown    []func()
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	verifier handlers.TokenVerifier,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketChatHandler,
	onShutdown ...func(),
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			verifier:      verifier,
			restHandler:   restHandler,
			socketHandler: socketHandler,
			onShutdown:    onShutdown,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.router = gin.Default()
	hs.setupRoutes()

	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) setupRoutes() {
	auth := hs.router.Group("/auth")
	{
		auth.POST("/register", hs.restHandler.Register)
		auth.POST("/login", hs.restHandler.Login)
	}

	chat := hs.router.Group("/chat")
	chat.Use(handlers.MustAuthenticateMiddleware(hs.verifier))
	{
		chat.POST("/messages", hs.restHandler.SendMessage)
		chat.GET("/messages/:userId", hs.restHandler.GetMessages)
		chat.PUT("/messages/read", hs.restHandler.MarkAsRead)
		chat.GET("/conversations", hs.restHandler.GetConversations)
	}

	hs.router.GET("/ws", hs.socketHandler.HandleSocketChatRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	for _, hook := range hs.onShutdown {
		hook()
	}

	log.Println("Server exiting")
}
