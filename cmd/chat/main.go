package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/finassist/internal/client/chat"
	"github.com/dmitrijs2005/finassist/internal/server/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	opts, err := chat.ParseOptions(os.Args[1:], os.LookupEnv)
	if err != nil {
		log.Fatalf("flags error: %v", err)
	}

	if err := chat.NewApp(cfg, opts).Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
