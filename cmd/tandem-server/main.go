package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/eventbus"
	"github.com/liuynx/Tandem/internal/httpapi"
	"github.com/liuynx/Tandem/internal/pkg/buildinfo"
	"github.com/liuynx/Tandem/internal/pkg/config"
	"github.com/liuynx/Tandem/internal/repository"
	"github.com/liuynx/Tandem/internal/service"
)

func main() {
	var cfgFile string
	var showVersion bool
	flag.StringVar(&cfgFile, "config", "", "配置文件路径")
	flag.BoolVar(&showVersion, "version", false, "打印版本后退出")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	// 首次运行时写出默认配置，方便用户编辑
	if cfgFile == "" {
		if path, err := config.DefaultConfigPath(); err == nil {
			if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
				_ = config.WriteFile(path, config.Default())
			}
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("加载配置失败", "error", err)
		os.Exit(1)
	}
	config.SetupLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		slog.Error("初始化数据库失败", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cat, err := catalog.NewRepository(cfg.Catalog.Dir)
	if err != nil {
		slog.Error("加载模板库失败", "error", err)
		os.Exit(1)
	}

	hub := eventbus.NewHub()

	// 外部模板目录变化时热加载，并广播事件
	if err := cat.Watch(ctx, func() {
		hub.Publish(eventbus.Event{
			Type: eventbus.EventCatalogReloaded,
			Data: map[string]any{"categories": len(cat.ListCategories())},
		})
	}); err != nil {
		slog.Warn("模板目录监听未启动", "error", err)
	}

	statusRepo := repository.NewStatusRepository(db.DB)
	relationshipRepo := repository.NewRelationshipRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)
	hintRepo := repository.NewHintRepository(db.DB)
	suggestionRepo := repository.NewSuggestionRepository(db.DB)

	builder := service.NewContextBuilder(statusRepo, relationshipRepo, profileRepo, hintRepo, suggestionRepo)
	selector := service.NewSelector(&service.SelectorConfig{
		PerCategory:    cfg.Suggest.PerCategory,
		RelevanceFloor: cfg.Suggest.RelevanceFloor,
		PoolSize:       cfg.Suggest.PoolSize,
		Seed:           cfg.Suggest.RandomSeed,
	})
	generator := service.NewGenerator(
		builder,
		cat,
		service.NewFeasibilityPolicy(),
		service.NewScorer(),
		selector,
		service.NewPersonalizer(),
		suggestionRepo,
		hub,
		&service.GeneratorConfig{ReuseThreshold: cfg.Suggest.ReuseThreshold},
	)

	deps := &httpapi.Deps{
		Hub:              hub,
		Generator:        generator,
		Catalog:          cat,
		StatusRepo:       statusRepo,
		ProfileRepo:      profileRepo,
		RelationshipRepo: relationshipRepo,
		HintRepo:         hintRepo,
		SuggestionRepo:   suggestionRepo,
	}

	server, err := httpapi.Start(ctx, cfg, deps, httpapi.Options{ListenAddr: cfg.Server.ListenAddr})
	if err != nil {
		slog.Error("启动 HTTP 服务失败", "error", err)
		os.Exit(1)
	}

	slog.Info("Tandem 已启动", "version", cfg.App.Version, "base_url", server.BaseURL())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("正在关闭...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = server.Shutdown(shutdownCtx)
	shutdownCancel()
	slog.Info("Tandem 已退出")
}
