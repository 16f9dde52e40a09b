package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question",
	Long: `Sends one question to the agent. The agent decides when to search the
knowledge base with the buscar_contexto tool and answers in Spanish.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if services == nil {
		return errors.New("services not configured")
	}

	askService, err := services.Ask()
	if err != nil {
		return err
	}

	answer, err := askService.Ask(commandContext(cmd), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
