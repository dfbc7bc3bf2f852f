package main

import (
	_ "embed"
	"flag"
	"strings"

	"github.com/dustin/go-humanize"

	"fstore/pkg/auth"
	"fstore/pkg/filestore"
	"fstore/pkg/log"
	"fstore/pkg/registry"
	"fstore/pkg/server"
)

//go:embed VERSION
var Version string

func main() {
	// Initialize logger first
	_ = log.Logger

	storageDir := flag.String("storage", "build/uploads", "Upload storage directory path")
	dbPath := flag.String("db", "build/fstore.db", "SQLite database path")
	addr := flag.String("addr", ":8080", "Listen address")
	secret := flag.String("secret", "", "Token signing secret")
	maxSize := flag.String("max-size", "", "Maximum upload size, e.g. 100MiB (default 2GiB)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetDebugMode()
	}

	if *secret == "" {
		log.Fatal().Msg("A token signing secret is required, pass -secret")
	}

	var maxFileSize int64
	if *maxSize != "" {
		parsed, err := humanize.ParseBytes(*maxSize)
		if err != nil {
			log.Fatal().Err(err).Str("max_size", *maxSize).Msg("Invalid maximum upload size")
		}
		maxFileSize = int64(parsed)
	}

	store, err := registry.NewStore(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Failed to open registry")
	}
	defer store.Close()

	manager, err := filestore.New(filestore.Config{
		UploadRoot:  *storageDir,
		MaxFileSize: maxFileSize,
	}, store)
	if err != nil {
		log.Fatal().Err(err).Str("storage_dir", *storageDir).Msg("Failed to initialize file store")
	}

	authService := auth.NewService(auth.Config{Secret: []byte(*secret)}, store)

	srv := server.NewServer(manager, authService, strings.TrimSpace(Version))
	if err := srv.Start(*addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
