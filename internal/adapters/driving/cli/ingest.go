package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbrag/internal/adapters/driving/watcher"
	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index the corpus into Pinecone",
	Long: `Loads the JSON corpus, splits every document into overlapping chunks,
embeds them with OpenAI and upserts them into the Pinecone index. The index is
created first if it does not exist.

The path defaults to the corpus.path setting (data/documentos.json).
Re-ingesting an unchanged corpus overwrites the same vectors.

Use --watch to keep running and re-ingest whenever the file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest when the corpus file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if services == nil {
		return errors.New("services not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	path := settings.Corpus.Path
	if len(args) > 0 {
		path = args[0]
	}

	ingestService, err := services.Ingest(func(format string, a ...any) {
		cmd.Printf(format+"\n", a...)
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := ingestOnce(ctx, cmd, ingestService, path, settings.Index.Spec.Name); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}

	w, err := watcher.New(path, func(ctx context.Context) error {
		cmd.Printf("\n%s changed, re-ingesting...\n", path)
		return ingestOnce(ctx, cmd, ingestService, path, settings.Index.Spec.Name)
	}, watcher.WithErrorHandler(func(err error) {
		cmd.PrintErrf("Error: %v\n", err)
	}))
	if err != nil {
		return err
	}
	cmd.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", w.Path())
	return w.Run(ctx)
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, svc driving.IngestService, path, index string) error {
	report, err := svc.Ingest(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrCorpusNotFound) {
			return fmt.Errorf("%w\nMake sure the JSON file exists at the given path", err)
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Ingestion complete: %d documents, %d chunks, %d vectors upserted\n",
		report.Documents, report.Chunks, report.Vectors)
	cmd.Printf("Your knowledge base is ready in Pinecone (index: %s)\n", index)
	return nil
}
