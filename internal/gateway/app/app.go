package app

import (
	"context"
	"fmt"
	"log"

	"smartsite/internal/gateway/config"
	"smartsite/internal/gateway/handler"
	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/gateway/repository/snapshot"
	"smartsite/internal/gateway/server"
	"smartsite/internal/gateway/service/advisor"
	"smartsite/internal/gateway/service/conversation"
	"smartsite/internal/gateway/service/review"
	"smartsite/internal/llmclient"
)

type App struct {
	server *server.Server
	ideas  *ideastore.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	llm, err := llmclient.NewGeminiClient(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}

	// Dependencies
	ideas := ideastore.NewFromEnv(cfg.IdeaStorePath)
	snapshots := newSnapshotStore(cfg.Snapshot)

	adv := advisor.New(llm, cfg.ChatModel, cfg.EvalModel, cfg.CodeModel)
	conversationSvc := conversation.New(adv, ideas, snapshots)
	reviewSvc := review.New(cfg.AdminPassword, ideas, snapshots)

	chatHandler := handler.NewChatHandler(conversationSvc)
	adminHandler := handler.NewAdminHandler(reviewSvc)

	// Routing & Server
	mux := server.NewMux(chatHandler, adminHandler, reviewSvc)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		ideas:  ideas,
	}, nil
}

func newSnapshotStore(cfg config.SnapshotConfig) snapshot.Store {
	if !cfg.Enabled {
		return snapshot.NewMemoryStore()
	}
	s3, err := snapshot.NewS3Store(snapshot.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Printf("snapshot s3 store unavailable, using memory store: %v", err)
		return snapshot.NewMemoryStore()
	}
	return s3
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.ideas.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
