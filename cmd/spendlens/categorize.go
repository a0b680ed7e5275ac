package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/engine"
	"github.com/spendlens/spendlens/internal/ingest"
	"github.com/spendlens/spendlens/internal/llm"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/rules"
	"github.com/spendlens/spendlens/internal/storage"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize an extracted statement",
		Long: `Reads an extracted transaction list (CSV: date,description,amount[,balance]),
resolves what it can with merchant rules, sends the remainder to the
inference service in batches, and prints every transaction with its
category, confidence, and source.`,
		RunE: runCategorize,
	}

	cmd.Flags().StringP("input", "i", "", "extracted transaction CSV (required)")
	cmd.Flags().String("rules", "", "additional merchant rules YAML file")
	cmd.Flags().String("db", "", "SQLite database to persist the run into")
	cmd.Flags().String("provider", "anthropic", "inference provider")
	cmd.Flags().String("model", "", "inference model override")
	cmd.Flags().Int("batch-size", 50, "max transactions per inference request")
	cmd.Flags().Duration("timeout", 60*time.Second, "per-request inference timeout")
	cmd.Flags().Int("max-retries", 2, "max attempts per inference batch, counting the first")
	cmd.Flags().Int("rate-limit", 60, "max inference requests per minute")
	cmd.Flags().Duration("cache-ttl", 15*time.Minute, "how long inference results are reused for identical transactions")
	cmd.Flags().Int("max-tokens", 4096, "max tokens per inference response")
	cmd.Flags().Bool("no-inference", false, "skip inference, rule misses fall back immediately")
	_ = cmd.MarkFlagRequired("input")

	_ = viper.BindPFlag("inference.provider", cmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("inference.model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("inference.timeout", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("inference.max_retries", cmd.Flags().Lookup("max-retries"))
	_ = viper.BindPFlag("inference.rate_limit", cmd.Flags().Lookup("rate-limit"))
	_ = viper.BindPFlag("inference.cache_ttl", cmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("inference.max_tokens", cmd.Flags().Lookup("max-tokens"))
	_ = viper.BindPFlag("engine.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	input, _ := cmd.Flags().GetString("input")
	rulesPath, _ := cmd.Flags().GetString("rules")
	dbPath, _ := cmd.Flags().GetString("db")
	noInference, _ := cmd.Flags().GetBool("no-inference")

	txns, err := ingest.ReadCSVFile(input)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("failed to ingest %s", input), err)
	}
	logger.Info("statement ingested", "file", input, "transactions", len(txns))

	classifier, err := buildClassifier(rulesPath, logger)
	if err != nil {
		return err
	}

	inferencer, cleanup, err := buildInferencer(noInference, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	engineConfig := engine.Config{BatchSize: viper.GetInt("engine.batch_size")}
	eng, err := engine.NewWithConfig(classifier, inferencer, logger, engineConfig)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	results, stats, err := eng.Categorize(ctx, txns)
	if err != nil {
		return fmt.Errorf("categorization failed: %w", err)
	}

	printResults(txns, results, stats)

	if dbPath != "" {
		if err := persistRun(ctx, dbPath, txns, results, stats); err != nil {
			return err
		}
	}

	return nil
}

func buildClassifier(rulesPath string, logger *slog.Logger) (*rules.Classifier, error) {
	ruleSet := rules.DefaultRules()
	if rulesPath != "" {
		extra, err := rules.LoadFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules from %s: %w", rulesPath, err)
		}
		logger.Info("loaded additional merchant rules", "file", rulesPath, "count", len(extra))
		ruleSet = append(ruleSet, extra...)
	}

	index := rules.NewIndex(ruleSet)
	logger.Info("merchant rule index ready", "rules", index.Size())

	return rules.NewClassifier(index, logger), nil
}

func buildInferencer(noInference bool, logger *slog.Logger) (engine.Inferencer, func(), error) {
	noop := func() {}

	if noInference {
		return nil, noop, nil
	}

	apiKey := viper.GetString("inference.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		logger.Warn("no inference API key configured; rule misses will fall back to Uncategorized")
		return nil, noop, nil
	}

	categorizer, err := llm.NewCategorizer(llm.Config{
		Provider:   viper.GetString("inference.provider"),
		APIKey:     apiKey,
		Model:      viper.GetString("inference.model"),
		Timeout:    viper.GetDuration("inference.timeout"),
		MaxRetries: viper.GetInt("inference.max_retries"),
		RateLimit:  viper.GetInt("inference.rate_limit"),
		CacheTTL:   viper.GetDuration("inference.cache_ttl"),
		MaxTokens:  viper.GetInt("inference.max_tokens"),
	}, logger)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to build inference client: %w", err)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("inference"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
	)

	wrapped := &progressInferencer{inner: categorizer, bar: bar}
	cleanup := func() {
		_ = bar.Finish()
		_ = categorizer.Close()
	}

	return wrapped, cleanup, nil
}

// progressInferencer ticks a progress bar as inference batches complete.
type progressInferencer struct {
	inner engine.Inferencer
	bar   *progressbar.ProgressBar
}

func (p *progressInferencer) CategorizeBatch(ctx context.Context, txns []model.Transaction, categories []model.CategoryLabel) (map[string]model.CategorizationResult, error) {
	results, err := p.inner.CategorizeBatch(ctx, txns, categories)
	_ = p.bar.Add(len(txns))
	return results, err
}

func printResults(txns []model.Transaction, results []model.CategorizationResult, stats model.RunStats) {
	byID := make(map[string]model.Transaction, len(txns))
	for _, txn := range txns {
		byID[txn.ID] = txn
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tCONFIDENCE\tSOURCE")
	for _, r := range results {
		txn := byID[r.TransactionID]
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%.2f\t%s\n",
			txn.Date.Format("2006-01-02"), txn.Name, txn.Amount,
			r.Category, r.Confidence, r.Source)
	}
	_ = w.Flush()

	fmt.Printf("\n%d transactions: %d by rule, %d by inference, %d fallback (%d batches, %d failed)\n",
		stats.Total, stats.ByRule, stats.ByInference, stats.ByFallback,
		stats.BatchesIssued, stats.BatchesFailed)
	if stats.Degraded() {
		fmt.Println("run degraded: some transactions are Uncategorized or low confidence")
	}
}

func persistRun(ctx context.Context, dbPath string, txns []model.Transaction, results []model.CategorizationResult, stats model.RunStats) error {
	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	run := &storage.Run{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		Transactions: txns,
		Results:      results,
		Stats:        stats,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to persist run: %w", err)
	}

	slog.Info("run persisted", "run_id", run.ID, "db", dbPath)
	return nil
}
