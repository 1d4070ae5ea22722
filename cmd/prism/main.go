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

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prism-rt/prism/pkg/scene"
	"github.com/prism-rt/prism/pkg/version"
	"github.com/prism-rt/prism/web/server"
)

var CLI struct {
	Debug bool `help:"Enable debug logging."`

	Render RenderCmd `cmd:"" help:"Render a scene to an image file."`

	Scenes struct{} `cmd:"" help:"List the built-in scenes."`

	Serve struct {
		Port      int    `help:"Port to serve on." default:"8080"`
		HistoryDB string `help:"SQLite file for render history (empty disables it)." name:"history-db" type:"path"`
	} `cmd:"" help:"Start the web viewer."`

	Version struct{} `cmd:"" help:"Print version information."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	parsed := kong.Parse(&CLI,
		kong.Name("prism"),
		kong.Description("a progressive Monte Carlo path tracer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("debug logging enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch parsed.Command() {
	case "render":
		err = renderCommand(ctx, CLI.Render)
	case "scenes":
		scenesCommand()
	case "serve":
		err = serveCommand(ctx)
	case "version":
		versionCommand()
	}
	if err != nil {
		writeError(err)
	}
}

func scenesCommand() {
	for _, name := range scene.BuiltinNames() {
		fmt.Println(name)
	}
}

func versionCommand() {
	fmt.Printf("prism %s (commit %s)\n", version.Version, version.GitCommit)
	fmt.Printf("built %s\n", version.BuildTime)
}

func serveCommand(ctx context.Context) error {
	srv, err := server.NewServer(server.Config{
		Port:        CLI.Serve.Port,
		HistoryPath: CLI.Serve.HistoryDB,
		Logger:      log.Logger,
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", CLI.Serve.Port).Msgf("visit http://localhost:%d to start rendering", CLI.Serve.Port)
	if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
