package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kbrag/internal/adapters/driving/console"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Starts an interactive session. Each line is one question; type salir,
exit or quit to leave. A failed question is reported and the session continues.

When input is piped, questions are answered one per line without the banner.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if services == nil {
		return errors.New("services not configured")
	}

	askService, err := services.Ask()
	if err != nil {
		return err
	}

	interactive := isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())
	styles := console.PlainStyles()
	if interactive {
		styles = console.NewStyles(nil)
	}

	session := console.NewSession(askService, cmd.InOrStdin(), cmd.OutOrStdout(),
		console.WithInteractive(interactive),
		console.WithStyles(styles),
	)
	return session.Run(commandContext(cmd))
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
