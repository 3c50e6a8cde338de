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
		Use:          "petstore-mock",
		Short:        "Offline reference implementation of the public pet store",
		Long:         `petstore-mock serves the pet endpoints with the status codes and bodies of petstore.swagger.io, so the contract suite can run without network access`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mock.LoadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return mock.Run(ctx, cfg)
		},
	}
	if err := cmd.Execute(); err != nil {
		log.Printf("petstore-mock: %v", err)
		os.Exit(1)
	}
}
