package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"payrun/internal/binance"
	"payrun/internal/history"
	"payrun/internal/logging"
	"payrun/internal/payout"
	"payrun/internal/prompt"
	"payrun/internal/telegram"
	"payrun/internal/templates"
	"payrun/internal/workflow"
)

func newExecuteCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var currency string
	var pollIntervalSeconds int

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Run a payout batch from a CSV input file",
		Long: "Reads the payout CSV, reconciles wallet balances, submits the batch to the\n" +
			"payment provider, waits for a terminal status, and notifies every recipient.\n" +
			"Each step pauses for operator confirmation before money moves.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}

			release, err := workflow.AcquireRunLock(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer release()

			startedAt := time.Now().UTC()
			stamp := startedAt.UnixMilli()

			audit, err := logging.Open(logging.Options{
				HistoryPath: filepath.Join(cfg.Paths.DataDir, fmt.Sprintf("history_%d.log", stamp)),
				Console:     cmd.ErrOrStderr(),
				Level:       cfg.Logging.Level,
			})
			if err != nil {
				return err
			}
			defer audit.Close()

			store, err := history.Open(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			ledger, err := binance.New(binance.Config{
				APIKey:       cfg.Binance.APIKey,
				APISecret:    cfg.Binance.APISecret,
				PayAPIKey:    cfg.Binance.PayAPIKey,
				PayAPISecret: cfg.Binance.PayAPISecret,
				BaseURL:      cfg.Binance.BaseURL,
				PayBaseURL:   cfg.Binance.PayBaseURL,
			})
			if err != nil {
				return err
			}
			notifier, err := telegram.New(cfg.Telegram.BotToken, telegram.WithBaseURL(cfg.Telegram.BaseURL))
			if err != nil {
				return err
			}
			terminal, err := prompt.NewTerminal()
			if err != nil {
				return err
			}
			messageTemplate, err := templates.LoadOrCreate(cfg.Paths.TemplatePath)
			if err != nil {
				return err
			}

			runCurrency := strings.ToUpper(strings.TrimSpace(currency))
			if runCurrency == "" {
				runCurrency = cfg.Payout.Currency
			}

			pollInterval := cfg.PollInterval()
			if pollIntervalSeconds > 0 {
				pollInterval = time.Duration(pollIntervalSeconds) * time.Second
			}

			run := payout.NewRunContext(uuid.NewString(), runCurrency, startedAt)
			run.MessageTemplate = messageTemplate

			logger := audit.Logger().With("run_id", run.RunID)
			logger.Info("payout run starting", "currency", run.Currency, "input", inputPath)

			runner := &workflow.Runner{
				Ledger:   ledger,
				Notifier: notifier,
				Prompt:   terminal,
				Logger:   logger,
				Out:      cmd.OutOrStdout(),
				Poll: workflow.PollPolicy{
					Interval:    pollInterval,
					MaxAttempts: cfg.Payout.PollMaxAttempts,
				},
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runErr := runner.Run(runCtx, run, inputPath)

			// Cleanup always runs: the artifact and the history row must
			// survive a failed or aborted run.
			outputPath := ""
			if run.HasOutput {
				outputPath = filepath.Join(cfg.Paths.DataDir, fmt.Sprintf("output_%d.json", stamp))
				if err := workflow.WriteArtifact(outputPath, run.Records); err != nil {
					logger.Error("output artifact write failed", "error", err)
					if runErr == nil {
						runErr = err
					}
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Output written to %s\n", outputPath)
				}
			}

			if err := store.Record(context.Background(), history.Run{
				RunID:       run.RunID,
				StartedAt:   startedAt,
				FinishedAt:  time.Now().UTC(),
				Outcome:     runOutcome(run, runErr),
				Currency:    run.Currency,
				Total:       run.RequiredTotal.String(),
				Records:     len(run.Records),
				BatchStatus: string(run.BatchStatus),
				LogPath:     audit.Path(),
				OutputPath:  outputPath,
			}); err != nil {
				logger.Error("run history record failed", "error", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Audit log written to %s\n", audit.Path())
			return runErr
		},
	}

	cmd.Flags().StringVarP(&inputPath, "file", "f", "", "Path to the payout CSV file")
	cmd.Flags().StringVar(&currency, "currency", "", "Asset to disburse (defaults to payout.currency from config)")
	cmd.Flags().IntVar(&pollIntervalSeconds, "poll-interval", 0, "Seconds between batch status queries (defaults to payout.poll_interval_seconds)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runOutcome(run *payout.RunContext, err error) history.Outcome {
	switch {
	case err != nil:
		return history.OutcomeFailed
	case !run.Continue:
		return history.OutcomeAborted
	default:
		return history.OutcomeCompleted
	}
}
