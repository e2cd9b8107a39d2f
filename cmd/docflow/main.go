package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	doccmd "github.com/goliatone/go-docflow/command"
	"github.com/goliatone/go-docflow/cmd/docflow/config"
	"github.com/goliatone/go-router"
	"go.uber.org/zap"
)

type cli struct {
	Serve       serveCmd       `cmd:"" default:"1" help:"Run the document HTTP server."`
	RenderBatch renderBatchCmd `cmd:"" name:"render-batch" help:"Render document requests from a JSON file."`
}

type runtime struct {
	cfg    config.Config
	logger *zap.SugaredLogger
}

func main() {
	cfg := config.ApplyEnv(config.Defaults(), os.Getenv)

	zlog, err := newLogger(cfg.Features.Debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	var args cli
	kctx := kong.Parse(&args,
		kong.Name("docflow"),
		kong.Description("Price list, invoice and contract rendering service."),
	)
	if err := kctx.Run(&runtime{cfg: cfg, logger: zlog.Sugar()}); err != nil {
		zlog.Sugar().Errorf("docflow: %v", err)
		_ = zlog.Sync()
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

const sessionSweepInterval = 10 * time.Minute

type serveCmd struct{}

func (serveCmd) Run(rt *runtime) error {
	ctx := context.Background()

	app, err := NewApp(ctx, rt.cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	defer app.Close()

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go app.Sessions.RunSweeper(sweepCtx, sessionSweepInterval)

	srv := router.NewFiberAdapter(fiberAppInitializer(rt.cfg))
	app.SetupRoutes(srv.Router())

	addr := fmt.Sprintf("%s:%s", rt.cfg.Server.Host, rt.cfg.Server.Port)
	go func() {
		rt.logger.Infof("docflow: listening on http://%s%s", addr, rt.cfg.Server.BasePath)
		if err := srv.Serve(addr); err != nil {
			rt.logger.Fatalf("docflow: server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	rt.logger.Infof("docflow: shutting down")
	return srv.Shutdown(ctx)
}

type renderBatchCmd struct {
	From string `name:"from" required:"" help:"Path to a JSON array of render requests."`
	Out  string `name:"out" default:"." help:"Directory receiving the rendered artifacts."`
}

func (c renderBatchCmd) Run(rt *runtime) error {
	ctx := context.Background()

	app, err := NewApp(ctx, rt.cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	defer app.Close()

	batch := doccmd.NewBatchRenderCommand(app.Service, doccmd.DirWriter{Dir: c.Out})
	count, err := batch.Run(ctx, c.From)
	rt.logger.Infof("docflow: rendered %d documents into %s", count, c.Out)
	return err
}

func fiberAppInitializer(cfg config.Config) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		fiberApp := fiber.New(fiber.Config{
			AppName:           "DocFlow",
			EnablePrintRoutes: cfg.Features.Debug,
			BodyLimit:         8 * 1024 * 1024,
		})

		fiberApp.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
		if cfg.Features.EnableCORS {
			fiberApp.Use(cors.New(cors.Config{
				AllowOrigins: "*",
				AllowMethods: "GET,POST,OPTIONS",
				AllowHeaders: "Content-Type,Authorization",
			}))
		}

		return fiberApp
	}
}
