package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zxfpro/primalstep/internal/config"
	"github.com/zxfpro/primalstep/internal/decompose"
	"github.com/zxfpro/primalstep/internal/errors"
	"github.com/zxfpro/primalstep/internal/llm"
	"github.com/zxfpro/primalstep/internal/logging"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose [goal]",
	Short: "Decompose a high-level goal into a dependency graph of steps",
	Long: `Decompose a high-level goal into a series of executable steps with
dependencies, validated to form a directed acyclic graph.

Examples:
  # Decompose with the mock LLM (no API key needed)
  primalstep decompose "build a todo application"

  # Use the real OpenAI backend
  primalstep decompose --mock=false --api-key sk-... "build a todo application"

  # Machine-readable output
  primalstep decompose -o json "build a todo application"`,
	Args: cobra.ExactArgs(1),
	RunE: runDecompose,
}

var (
	decomposeOutput string
	decomposeMock   bool
	decomposeAPIKey string
)

func init() {
	rootCmd.AddCommand(decomposeCmd)

	decomposeCmd.Flags().StringVarP(&decomposeOutput, "output", "o", "text", "Output format: json or text")
	decomposeCmd.Flags().BoolVar(&decomposeMock, "mock", true, "Use the mock LLM instead of a real backend")
	decomposeCmd.Flags().StringVar(&decomposeAPIKey, "api-key", "", "OpenAI API key (falls back to OPENAI_API_KEY)")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	goal := args[0]

	if decomposeOutput != "json" && decomposeOutput != "text" {
		return fmt.Errorf("invalid output format %q: must be json or text", decomposeOutput)
	}

	cfg, err := config.Load()
	if err != nil {
		// The mock path needs no credentials, so don't let a missing API
		// key in the config block it; re-validate after the overrides.
		cfg = config.Default()
	}
	if decomposeMock {
		cfg.LLM.Provider = config.ProviderMock
	} else {
		cfg.LLM.Provider = config.ProviderOpenAI
	}
	if decomposeAPIKey != "" {
		cfg.LLM.APIKey = decomposeAPIKey
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.WithComponent("cli")

	client, err := llm.NewFromConfig(cfg.LLM)
	if err != nil {
		return err
	}
	log.Info("decomposing goal", "goal", goal, "provider", cfg.LLM.Provider)

	decomposer := decompose.NewDecomposer(client, logger)
	graph, details, err := decomposer.Decompose(cmd.Context(), goal)
	if err != nil {
		if errors.IsValidation(err) {
			return fmt.Errorf("the model produced an invalid plan: %w", err)
		}
		return fmt.Errorf("decomposition failed: %w", err)
	}

	if decomposeOutput == "json" {
		return printJSON(cmd, goal, graph, details)
	}
	printText(cmd, goal, graph, details)
	return nil
}

// printJSON mirrors the HTTP API response shape, plus the goal.
func printJSON(cmd *cobra.Command, goal string, graph *decompose.TaskGraph, details decompose.StepDetails) error {
	type node struct {
		ID           string   `json:"id"`
		Description  string   `json:"description"`
		Instructions []string `json:"instructions"`
	}

	nodes := make([]node, 0, graph.NodeCount())
	for _, id := range graph.Nodes() {
		attrs, _ := graph.Attrs(id)
		nodes = append(nodes, node{ID: id, Description: attrs.Description, Instructions: attrs.Instructions})
	}

	out, err := json.MarshalIndent(map[string]any{
		"goal":          goal,
		"graph_nodes":   nodes,
		"graph_edges":   graph.Edges(),
		"steps_details": details,
	}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

var (
	goalStyle    = lipgloss.NewStyle().Bold(true)
	groupStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	stepIDStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// printText renders the plan grouped by execution stage: every step in a
// group depends only on steps from earlier groups.
func printText(cmd *cobra.Command, goal string, graph *decompose.TaskGraph, details decompose.StepDetails) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, goalStyle.Render("Goal: ")+goal)
	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render("Steps"))

	records := make([]decompose.StepRecord, 0, len(details))
	for id, detail := range details {
		records = append(records, decompose.StepRecord{
			ID:           id,
			Description:  detail.Description,
			Dependencies: detail.Dependencies,
			Instructions: detail.Instructions,
		})
	}

	for i, group := range decompose.ExecutionOrder(records) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, groupStyle.Render(fmt.Sprintf("Stage %d", i+1)))
		for _, id := range group {
			detail := details[id]
			fmt.Fprintf(out, "  %s  %s\n", stepIDStyle.Render(id), detail.Description)
			if len(detail.Dependencies) > 0 {
				fmt.Fprintln(out, detailStyle.Render("        depends on: "+strings.Join(detail.Dependencies, ", ")))
			}
			for _, instr := range detail.Instructions {
				fmt.Fprintln(out, detailStyle.Render("        $ "+instr))
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render("Edges (prerequisite -> dependent)"))
	for _, edge := range graph.Edges() {
		fmt.Fprintf(out, "  %s -> %s\n", edge[0], edge[1])
	}
}
