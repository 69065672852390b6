package main

import (
	"context"
	"fieldbot/app/config"
	"fieldbot/app/server"
	"fieldbot/app/service/convctx"
	"fieldbot/app/service/dispatch"
	"fieldbot/app/service/flow"
	"fieldbot/app/service/generate"
	"fieldbot/app/service/intent"
	"fieldbot/app/service/learning"
	"fieldbot/app/service/modelstore"
	"fieldbot/app/service/optimizer"
	"fieldbot/app/service/orchestrator"
	"fieldbot/app/service/suggest"
	"fieldbot/app/store/convstore"
	"fieldbot/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, convstore.New)
	do.Provide(di, intent.New)
	do.Provide(di, convctx.New)
	do.Provide(di, flow.New)
	do.Provide(di, generate.New)
	do.Provide(di, optimizer.New)
	do.Provide(di, suggest.New)
	do.Provide(di, learning.New)
	do.Provide(di, modelstore.New)
	do.Provide(di, dispatch.New)
	do.Provide(di, orchestrator.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*dispatch.Service](di).Run(appCtx); err != nil {
			slog.Error("learning dispatch stopped", "error", err)
		}
	}()

	go func() {
		if err := do.MustInvoke[*server.Service](di).Run(appCtx); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-appCtx.Done()
}
