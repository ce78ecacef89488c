// Package main starts the poster planner web server.
package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"mime"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	webcmd "posterplanner/internal/cmd/web"
)

//go:embed static/*
var embeddedStatic embed.FS

func main() {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	cfg, err := webcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("parse config")
	}
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("static assets")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := webcmd.Run(ctx, cfg, staticFS); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
