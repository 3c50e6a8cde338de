package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Apurer/petstore-contract-tests/internal/app/mock"
	"github.com/Apurer/petstore-contract-tests/internal/contract"
	"github.com/Apurer/petstore-contract-tests/internal/contract/petstore"
	petsmemory "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/memory"
	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
	"github.com/Apurer/petstore-contract-tests/internal/platform/observability"
)

var errTestsFailed = errors.New("contract tests failed")

func main() {
	var params commandParams

	root := &cobra.Command{
		Use:          "petstore-contract",
		Short:        "Contract tests for the pet endpoints of a pet store API",
		SilenceUsage: true,
	}
	params.bindPersistent(root)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the contract against a pet store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSuite(ctx, &params)
		},
	}
	params.bindRun(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the ids of the selected cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range contract.Selected(petstore.Groups(), params.filters.AsFilter) {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	root.AddCommand(runCmd, listCmd)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			reportError(root.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}

func runSuite(ctx context.Context, params *commandParams) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}
	logger, err := observability.NewConsoleLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	if params.offline {
		baseURL, shutdown, err := startReferenceServer(ctx, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		cfg.BaseURL = baseURL
	}

	client, err := contract.NewClientFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("\nTarget: %s\n", describeTarget(cfg, params.offline))
	if d := params.filters.Describe(); d != "" {
		fmt.Print(d)
	}
	fmt.Println("Running contract suite")

	runner := contract.NewRunner(client,
		contract.WithFilter(params.filters.AsFilter),
		contract.WithTestLogger(&contract.ConsoleTestLogger{
			Out:                  os.Stdout,
			DebugOutputOnFailure: params.debug || params.debugAll,
			DebugOutputOnSuccess: params.debugAll,
		}),
	)
	results := runner.Run(ctx, petstore.Groups())

	contract.PrintResults(os.Stdout, results)
	if results.OK() {
		return nil
	}
	fmt.Printf("\nTo re-run only the failed tests:\n  %s\n", params.rerunCommand(filepath.Base(os.Args[0]), results))
	return errTestsFailed
}

// startReferenceServer serves a seeded in-memory pet store on a loopback port.
func startReferenceServer(ctx context.Context, logger *slog.Logger) (string, func(), error) {
	gin.SetMode(gin.ReleaseMode)
	service := petsapp.NewService(petsmemory.NewRepository())
	if err := mock.Seed(ctx, service, logger); err != nil {
		return "", nil, err
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen for reference server: %w", err)
	}
	server := &http.Server{Handler: mock.NewRouter(service, nil, "/v2")}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("reference server stopped", slog.Any("error", err))
		}
	}()
	shutdown := func() { _ = server.Close() }
	return fmt.Sprintf("http://%s/v2", listener.Addr()), shutdown, nil
}

// reportError prints a failure that happened before or outside the test run,
// through the same console handler the run itself logs with.
func reportError(w io.Writer, err error) {
	logger, lerr := observability.NewWriterLogger(w, "error", observability.FormatText)
	if lerr != nil {
		fmt.Fprintf(w, "petstore-contract: %v\n", err)
		return
	}
	logger.Error("petstore-contract failed", slog.String("error", err.Error()))
}
