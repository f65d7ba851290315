package main

import (
	"log"

	"kampusconnect.id/forum/internal/config"
	"kampusconnect.id/forum/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	defer srv.Close()

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
