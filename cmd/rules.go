package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/getlawrence/useserver/internal/linter"
	"github.com/getlawrence/useserver/internal/logger"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rules",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().Bool("json", false, "print rule metadata as JSON")
}

type ruleInfo struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Type           string `json:"type"`
	Severity       string `json:"default_severity"`
	Recommended    bool   `json:"recommended"`
	HasSuggestions bool   `json:"has_suggestions"`
	URL            string `json:"url,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	var infos []ruleInfo
	for _, rule := range linter.DefaultRules().All() {
		meta := rule.Meta()
		infos = append(infos, ruleInfo{
			ID:             rule.ID(),
			Description:    meta.Description,
			Category:       string(meta.Category),
			Type:           string(meta.Type),
			Severity:       string(meta.DefaultSeverity),
			Recommended:    meta.Recommended,
			HasSuggestions: meta.HasSuggestions,
			URL:            meta.URL,
		})
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(infos)
	}

	idStyle := lipgloss.NewStyle().Bold(true)
	for _, info := range infos {
		id := info.ID
		if logger.IsInteractive() {
			id = idStyle.Render(id)
		}
		fmt.Fprintf(out, "%s (%s, %s)\n", id, info.Category, info.Severity)
		fmt.Fprintf(out, "  %s\n", info.Description)
		if info.HasSuggestions {
			fmt.Fprintf(out, "  💡 has suggestions\n")
		}
		if info.URL != "" {
			fmt.Fprintf(out, "  📖 %s\n", info.URL)
		}
	}
	return nil
}
