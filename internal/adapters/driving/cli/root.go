// Package cli implements the kbrag command line.
//
// Commands are package-level cobra commands registered in init. Services are
// injected by the composition root through the setters below; Bootstrap is
// called once flags are parsed so --config can pick the settings directory.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
	"github.com/custodia-labs/kbrag/internal/logger"
)

// ServiceProvider builds the services a command needs. Construction is
// deferred so each command only requires the secrets it uses.
type ServiceProvider interface {
	// Ingest returns the ingest service reporting progress through fn.
	Ingest(progress func(format string, args ...any)) (driving.IngestService, error)

	// Ask returns the question-answering service.
	Ask() (driving.AskService, error)

	// Retrieval returns the retrieval tool.
	Retrieval() (driving.RetrievalService, error)
}

// BootstrapFunc wires services for the given configuration directory.
// An empty dir selects the default.
type BootstrapFunc func(configDir string) (driving.SettingsService, ServiceProvider, error)

// noServicesAnnotation marks commands that run without settings or services.
// Bootstrap is skipped for them so nothing is created on disk.
const noServicesAnnotation = "kbrag/no-services"

var (
	version = "dev"

	configDir string
	verbose   bool

	bootstrap       BootstrapFunc
	settingsService driving.SettingsService
	services        ServiceProvider
)

var rootCmd = &cobra.Command{
	Use:   "kbrag",
	Short: "Question answering over a technical knowledge base",
	Long: `kbrag indexes a JSON corpus of technical documents into Pinecone and answers
questions about it with an OpenAI agent that retrieves context on demand.

  kbrag ingest           Index data/documentos.json
  kbrag chat             Interactive questions
  kbrag ask "pregunta"   One question
  kbrag search "texto"   Show the retrieved context only

OPENAI_API_KEY and PINECONE_API_KEY are read from the environment or a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline and agent trace to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.kbrag)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that wires services after flag parsing.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetServices sets the service provider.
func SetServices(p ServiceProvider) {
	services = p
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil || !needsServices(cmd) {
		return nil
	}
	settings, provider, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	settingsService = settings
	services = provider
	return nil
}

// needsServices reports whether cmd or one of its parents is not annotated
// with noServicesAnnotation.
func needsServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[noServicesAnnotation]; ok {
			return false
		}
	}
	return true
}

// commandContext returns the command context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
