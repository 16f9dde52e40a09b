package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Show the context retrieved for a query",
	Long: `Runs the retrieval tool directly: embeds the query, finds the most similar
chunks in Pinecone and prints them as the agent would see them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if services == nil {
		return errors.New("services not configured")
	}

	retrieval, err := services.Retrieval()
	if err != nil {
		return err
	}

	text := retrieval.Retrieve(commandContext(cmd), strings.Join(args, " "))
	if text == "" {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println(text)
	return nil
}
