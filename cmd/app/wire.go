//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/patternlife/internal/bootstrap"
	"github.com/yanqian/patternlife/internal/domain/narrative"
	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/internal/domain/route"
	"github.com/yanqian/patternlife/internal/infra/config"
	httpiface "github.com/yanqian/patternlife/internal/interface/http"
	"github.com/yanqian/patternlife/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		providePatternConfig,
		provideRouteConfig,
		provideNarrativeConfig,
		provideSignalStore,
		provideResultCache,
		provideRouteProvider,
		provideChatClient,
		provideTokenCounter,
		providePlaceFinder,
		pattern.NewService,
		route.NewService,
		narrative.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
