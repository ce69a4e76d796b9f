/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bixoryai/mcp-course/agentsession"
	"github.com/bixoryai/mcp-course/mcpbridge"
	"github.com/bixoryai/mcp-course/tagging"
	"github.com/bixoryai/mcp-course/tagreconciler"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// agentConfig mirrors the webhook server's agent settings.
type agentConfig struct {
	HFToken         string   `env:"HF_TOKEN"`
	Model           string   `env:"HF_MODEL"`
	Provider        string   `env:"DEFAULT_PROVIDER,default=nebius"`
	AnthropicAPIKey string   `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string   `env:"GEMINI_API_KEY"`
	Command         string   `env:"TAGSERVER_COMMAND,default=tagserver"`
	Args            []string `env:"TAGSERVER_ARGS"`
}

// sessionSource is what the process command needs from the agent.
type sessionSource interface {
	tagreconciler.SessionSource
	Close() error
}

// newSessions builds the agent session manager. Tests replace it.
var newSessions = func(ctx context.Context) (sessionSource, error) {
	var cfg agentConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	return agentsession.NewManagerFromConfig(agentsession.Config{
		Credential:         cfg.HFToken,
		Provider:           cfg.Provider,
		Model:              cfg.Model,
		AnthropicAPIKey:    cfg.AnthropicAPIKey,
		GeminiAPIKey:       cfg.GeminiAPIKey,
		ToolServer:         mcpbridge.ConnSpec{Command: cfg.Command, Args: cfg.Args},
		SystemInstructions: tagreconciler.SystemInstructions,
	}), nil
}

func newRootCmd() *cobra.Command {
	var (
		vocabFile string
		substring bool
	)
	root := &cobra.Command{
		Use:           "tagctl",
		Short:         "Inspect and replay tag bot events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&vocabFile, "vocabulary", "", "YAML vocabulary file (defaults to the built-in list)")
	root.PersistentFlags().BoolVar(&substring, "substring", false, "match vocabulary entries anywhere in the text, not only as whole tokens")

	extractor := func() (*tagging.Extractor, error) {
		var opts []tagging.Option
		if substring {
			opts = append(opts, tagging.WithSubstringMatching())
		}
		if vocabFile == "" {
			return tagging.NewExtractor(tagging.DefaultVocabulary(), opts...), nil
		}
		v, err := tagging.LoadVocabulary(vocabFile)
		if err != nil {
			return nil, err
		}
		return tagging.NewExtractor(v, opts...), nil
	}

	root.AddCommand(newExtractCmd(extractor), newProcessCmd(extractor), newSchemaCmd())
	return root
}

func newExtractCmd(extractor func() (*tagging.Extractor, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [text...]",
		Short: "Show the candidate tags found in text",
		Long: `Run the tag extractor over the arguments, or over stdin when no arguments are given,
and print each candidate with the strategies that found it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := extractor()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(b)
			}

			sources := map[string][]string{}
			for _, c := range e.Candidates(text) {
				sources[c.Tag] = append(sources[c.Tag], string(c.Source))
			}
			if len(sources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
				return nil
			}
			table := newTable(cmd.OutOrStdout(), []string{"Tag", "Found by"})
			for _, tag := range e.Extract(text).Sorted() {
				_ = table.Append([]string{tag, strings.Join(sources[tag], ", ")})
			}
			return table.Render()
		},
	}
}

func newProcessCmd(extractor func() (*tagging.Extractor, error)) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "process <event.json>",
		Short: "Reconcile one event synchronously and print the outcomes",
		Long: `Parse a webhook payload from a file ("-" for stdin) and run it through the agent,
exactly as the webhook server would in the background. Agent settings come from
the same environment variables as the server (HF_TOKEN, HF_MODEL, DEFAULT_PROVIDER,
TAGSERVER_COMMAND).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := extractor()
			if err != nil {
				return err
			}
			var b []byte
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading event: %w", err)
			}
			ev, err := tagreconciler.ParseEvent(b)
			if err != nil {
				return err
			}

			sessions, err := newSessions(cmd.Context())
			if err != nil {
				return err
			}
			defer sessions.Close()

			p := tagreconciler.NewProcessor(sessions,
				tagreconciler.WithExtractor(e),
				tagreconciler.WithClassifier(tagreconciler.StatusClassifier))
			report := p.Reconcile(cmd.Context(), ev)
			return printReport(cmd.OutOrStdout(), report, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the webhook payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := tagreconciler.EventSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
