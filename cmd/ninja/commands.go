package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/config"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/content"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/hierarchy"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/importer"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/reconcile"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/storage"
)

// --- progress ---

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show hierarchy progress for a user",
	Long: `Show hierarchy progress for a user.

Loads the content catalog, classifies every vocabulary, kanji, and radical
against the user's cards, and prints per-level summaries.

Examples:
  ninja progress --user alice
  ninja progress --user alice --json > progress.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		asJSON, _ := cmd.Flags().GetBool("json")
		if user == "" {
			return fmt.Errorf("--user is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)
		ctx := cmd.Context()

		h, err := content.LoadDir(ctx, cfg.Content.Dir)
		if err != nil {
			return fmt.Errorf("loading content catalog: %w", err)
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		cards, err := store.FetchCardsForUser(ctx, user)
		if err != nil {
			return fmt.Errorf("fetching cards: %w", err)
		}

		enriched, err := hierarchy.Enrich(h, hierarchy.IndexCards(cards), cfg.SRS.WellKnownStability)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(enriched)
		}

		printSummary("Vocabulary", enriched.VocabularySummary)
		printSummary("Kanji", enriched.KanjiSummary)
		printSummary("Radicals", enriched.RadicalSummary)
		return nil
	},
}

func printSummary(label string, s hierarchy.Summary) {
	notSeen := s.Total - s.WellKnown - s.Learning
	printStatus(label, "%d total, %d well known, %d learning, %d not seen",
		s.Total, s.WellKnown, s.Learning, notSeen)
}

func init() {
	progressCmd.Flags().String("user", "", "user to report on")
	progressCmd.Flags().Bool("json", false, "print the full enriched hierarchy as JSON")
}

// --- apply ---

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile edited statuses against stored cards",
	Long: `Reconcile edited statuses against stored cards.

Takes a snapshot file (statuses as they were when editing began) and an edits
file (statuses after editing), both JSON objects mapping item keys to one of
"learning", "decent", "mastered", or "" for none. Items whose status changed
are upserted or deleted in batch; everything else is left alone.

Examples:
  ninja apply --user alice --snapshot before.json --edits after.json
  ninja apply --user alice --snapshot before.json --edits after.json --mode spellings`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		snapshotPath, _ := cmd.Flags().GetString("snapshot")
		editsPath, _ := cmd.Flags().GetString("edits")
		modeStr, _ := cmd.Flags().GetString("mode")
		if user == "" || snapshotPath == "" || editsPath == "" {
			return fmt.Errorf("--user, --snapshot, and --edits are required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)
		ctx := cmd.Context()

		mode, err := resolveMode(modeStr, cfg)
		if err != nil {
			return err
		}

		initial, err := readStatusMap(snapshotPath)
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
		current, err := readStatusMap(editsPath)
		if err != nil {
			return fmt.Errorf("reading edits: %w", err)
		}

		h, err := content.LoadDir(ctx, cfg.Content.Dir)
		if err != nil {
			return fmt.Errorf("loading content catalog: %w", err)
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		proc := reconcile.NewProcessor(store, nil)
		result := proc.Process(ctx, reconcile.Input{
			UserID:  user,
			IDs:     snapshotKeys(initial),
			Initial: initial,
			Current: current,
			Resolve: catalogResolver(h),
			Mode:    mode,
			Now:     time.Now().UTC(),
		})

		run := storage.SyncRun{
			ID:        uuid.NewString(),
			UserID:    user,
			StartedAt: time.Now().UTC(),
			Upserted:  result.Upserted,
			Deleted:   result.Deleted,
			Status:    "ok",
		}
		if !result.Success {
			run.Status = "failed"
			run.Error = fmt.Sprintf("%v", result.Errors)
		}
		if err := store.RecordSyncRun(ctx, run); err != nil {
			printWarning("could not record sync run: %v", err)
		}

		if !result.Success {
			for _, msg := range result.Errors {
				printError("%s", msg)
			}
			return fmt.Errorf("reconciliation failed; snapshot is still valid, fix and retry")
		}
		printSuccess("Applied %d changes (%d upserted, %d deleted)",
			len(result.Changes), result.Upserted, result.Deleted)
		return nil
	},
}

func init() {
	applyCmd.Flags().String("user", "", "user whose cards to reconcile")
	applyCmd.Flags().String("snapshot", "", "JSON file of statuses before editing")
	applyCmd.Flags().String("edits", "", "JSON file of statuses after editing")
	applyCmd.Flags().String("mode", "", "practice mode (defaults to config srs.default_mode)")
}

// readStatusMap parses a JSON object of item key to status and rejects
// statuses outside the known set.
func readStatusMap(path string) (map[string]srs.ItemStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]srs.ItemStatus
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for key, status := range m {
		if !status.IsValid() {
			return nil, fmt.Errorf("item %q has unknown status %q", key, status)
		}
	}
	return m, nil
}

// snapshotKeys lists the ids reconciliation may touch. Items that only appear
// in the edits were never part of the editing session and are left alone.
func snapshotKeys(initial map[string]srs.ItemStatus) []string {
	ids := make([]string, 0, len(initial))
	for k := range initial {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// catalogResolver types an item key by catalog lookup: kanji slugs and
// characters resolve to kanji cards, everything else to vocabulary.
func catalogResolver(h hierarchy.Hierarchy) reconcile.TypeResolver {
	kanji := make(map[string]struct{}, len(h.Kanji))
	for _, k := range h.Kanji {
		kanji[k.Slug] = struct{}{}
		if k.Characters != "" {
			kanji[k.Characters] = struct{}{}
		}
	}
	return func(id string) srs.CardType {
		if _, ok := kanji[id]; ok {
			return srs.TypeKanji
		}
		return srs.TypeVocabulary
	}
}

func resolveMode(modeStr string, cfg config.Config) (srs.PracticeMode, error) {
	if modeStr == "" {
		modeStr = cfg.SRS.DefaultMode
	}
	mode := srs.PracticeMode(modeStr)
	switch mode {
	case srs.ModeMeanings, srs.ModeSpellings:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown practice mode %q", modeStr)
	}
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import progress from an external service export",
	Long: `Import progress from an external service export.

Supported services: anki, wanikani, jpdb. By default the export is parsed and
written immediately; with --queue the import is enqueued for the worker.

Examples:
  ninja import --user alice --service wanikani --file assignments.json
  ninja import --user alice --service jpdb --file jpdb-export.json --queue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		service, _ := cmd.Flags().GetString("service")
		file, _ := cmd.Flags().GetString("file")
		modeStr, _ := cmd.Flags().GetString("mode")
		queue, _ := cmd.Flags().GetBool("queue")
		if user == "" || service == "" || file == "" {
			return fmt.Errorf("--user, --service, and --file are required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)
		ctx := cmd.Context()

		mode, err := resolveMode(modeStr, cfg)
		if err != nil {
			return err
		}
		parse, err := importer.ForService(service)
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		if queue {
			payload, err := json.Marshal(importer.JobPayload{Path: file, Mode: string(mode)})
			if err != nil {
				return err
			}
			job := storage.ImportJob{
				ID:          uuid.NewString(),
				UserID:      user,
				Service:     service,
				PayloadJSON: string(payload),
			}
			if err := store.EnqueueImportJob(ctx, job); err != nil {
				return fmt.Errorf("enqueueing import: %w", err)
			}
			printSuccess("Queued %s import %s", service, job.ID)
			return nil
		}

		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening export file: %w", err)
		}
		defer f.Close()

		entries, err := parse(f)
		if err != nil {
			return fmt.Errorf("parsing %s export: %w", service, err)
		}
		cards, err := importer.BuildCards(entries, mode, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := store.BatchUpsertCards(ctx, user, cards); err != nil {
			return fmt.Errorf("writing cards: %w", err)
		}

		printSuccess("Imported %d of %d entries from %s", len(cards), len(entries), service)
		return nil
	},
}

func init() {
	importCmd.Flags().String("user", "", "user to import cards for")
	importCmd.Flags().String("service", "", "export source: anki, wanikani, or jpdb")
	importCmd.Flags().String("file", "", "path to the export file")
	importCmd.Flags().String("mode", "", "practice mode (defaults to config srs.default_mode)")
	importCmd.Flags().Bool("queue", false, "enqueue for the import worker instead of importing now")
}

// --- worker ---

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the import worker (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		poll, err := time.ParseDuration(cfg.Import.PollInterval)
		if err != nil {
			printWarning("invalid import.poll_interval %q, using 500ms", cfg.Import.PollInterval)
			poll = 500 * time.Millisecond
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "ninja worker %s polling every %s\n", version, poll)
		importer.NewWorker(store, store, poll).Run(ctx)
		fmt.Fprintln(os.Stderr, "shutting down...")
		return nil
	},
}

// --- runs ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent reconciliation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")
		if user == "" {
			return fmt.Errorf("--user is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		runs, err := store.RecentSyncRuns(cmd.Context(), user, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs found.")
			return nil
		}

		for _, run := range runs {
			line := fmt.Sprintf("%s  %s  +%d -%d  %s",
				colorize(colorCyan, run.ID[:8]),
				run.StartedAt.Format(time.RFC3339),
				run.Upserted, run.Deleted, run.Status)
			if run.Error != "" {
				line += "  " + run.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().String("user", "", "user whose runs to list")
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
