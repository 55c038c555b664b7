package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/config"
	"focuslist/focuslist/database"
	"focuslist/focuslist/middleware"
	"focuslist/focuslist/routes"
	"focuslist/focuslist/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, release, err := bootstrap()
			if err != nil {
				return err
			}
			defer release()

			if !skipMigrations {
				if err := database.RunMigrations(db.DB); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
			}
			return serve(cfg, logger, db)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not migrate the schema on start")
	return cmd
}

func serve(cfg config.Config, logger *zap.Logger, db *database.Database) error {
	var producer broker.Producer = broker.DefaultProducer{}
	natsProducer, err := broker.InitProducer(cfg.NatsURL)
	if err != nil {
		logger.Warn("NATS unavailable, events will be logged and dropped",
			zap.String("url", cfg.NatsURL), zap.Error(err))
	} else {
		producer = natsProducer
		defer natsProducer.Close()
	}

	done := make(chan struct{})
	defer close(done)
	if natsProducer != nil {
		consumer, err := broker.InitConsumer(cfg.NatsURL, []string{broker.NotificationSubject}, "focuslist-notifications")
		if err != nil {
			logger.Warn("failed to subscribe to notifications", zap.Error(err))
		} else {
			defer consumer.Close()
			go broker.StartNotificationConsumer(consumer.GetMessageChannel(), done, broker.LogNotification)
		}
	}

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	roleService := services.NewRoleService()
	notificationService := services.NewNotificationService(producer)
	categoryService := &services.CategoryService{}
	userService := services.NewUserService(authService, categoryService)
	taskService := services.NewTaskService(roleService, notificationService)
	inviteService := services.NewInviteService(roleService, notificationService)
	collaboratorService := services.NewCollaboratorService(roleService, notificationService)
	wheelService := services.NewWheelService()

	services.RoleServiceInstance = roleService
	services.NotificationServiceInstance = notificationService
	services.CategoryServiceInstance = categoryService
	services.UserServiceInstance = userService
	services.TaskServiceInstance = taskService
	services.InviteServiceInstance = inviteService
	services.CollaboratorServiceInstance = collaboratorService
	services.WheelServiceInstance = wheelService

	eventHandler := services.NewEventHandlerService(db, producer, cfg.EventDispatchInterval)
	eventHandler.Start()
	defer eventHandler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.GinZapMiddleware(logger), middleware.CORSMiddleware(cfg.AllowedOrigins))

	public := router.Group("/api/v1")
	routes.RegisterHealthRoutes(public, db)
	routes.RegisterAuthRoutes(public, db, authService, userService)
	routes.RegisterPublicInviteRoutes(public, db, inviteService)

	protected := router.Group("/api/v1", middleware.AuthMiddleware(authService))
	routes.RegisterUserRoutes(protected, db, userService)
	routes.RegisterTaskRoutes(protected, db, taskService)
	routes.RegisterInviteRoutes(protected, db, inviteService)
	routes.RegisterCollaboratorRoutes(protected, db, collaboratorService)
	routes.RegisterCategoryRoutes(protected, db, categoryService)
	routes.RegisterNotificationRoutes(protected, db, notificationService)
	routes.RegisterWheelRoutes(protected, db, wheelService)

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API server is running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
