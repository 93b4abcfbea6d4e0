package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cantwait/lash-backend/config"
	"github.com/cantwait/lash-backend/internal/adminapi"
	"github.com/cantwait/lash-backend/internal/app"
	"github.com/cantwait/lash-backend/internal/notify"
	"github.com/cantwait/lash-backend/internal/webserver"
)

var (
	cfile   = flag.String("c", "/etc/lash-backend.yml", "config file path")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showver = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showver {
		fmt.Println("lashd", version)
		return
	}

	cfg := config.LoadConfig(*cfile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	server := webserver.Init(cfg, application.DB())
	webserver.RegisterAuthRoutes()
	adminapi.Register(adminapi.Deps{
		Sessions: application.Sessions(),
		Mailer:   application.Mailer(),
		Images:   application.Images(),
	})

	if cfg.Push.Enabled {
		client := notify.NewPushClient(cfg.Push.Endpoint, cfg.Push.AppId, cfg.Push.Key, cfg.Push.Secret)
		notify.StartPushRelay(application.Hub(), client, notify.SessionsChannel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Listen(ctx); err != nil {
		zap.L().Error("web server stopped", zap.Error(err))
		os.Exit(1)
	}
}
