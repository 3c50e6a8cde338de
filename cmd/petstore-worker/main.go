package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Apurer/petstore-contract-tests/internal/app/mock"
)

func main() {
	cmd := &cobra.Command{
		Use:          "petstore-worker",
		Short:        "Temporal worker persisting pets created through the reference server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mock.LoadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return mock.RunWorker(ctx, cfg)
		},
	}
	if err := cmd.Execute(); err != nil {
		log.Printf("petstore-worker: %v", err)
		os.Exit(1)
	}
}
