package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darkquasar/purplerepo/pkg/config"
	"github.com/darkquasar/purplerepo/pkg/enrich"
	"github.com/darkquasar/purplerepo/pkg/picker"
	"github.com/darkquasar/purplerepo/pkg/registry"
)

var (
	enrichPick bool
	enrichFile string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [github-url]",
	Short: "Enrich a GitHub repository URL with API metadata",
	Long: `Look up a GitHub repository and print its enriched metadata as JSON:
description, stars, forks, open issues, language, license, topics, owner,
and the most recent commit.

Authentication uses the GITHUB_TOKEN environment variable, falling back to
github.token in ~/.purplerepo/config.yaml.

Examples:
  # Enrich a URL directly
  purplerepo enrich https://github.com/darkquasar/purplerepo

  # Pick an entry from the local registry file interactively
  purplerepo enrich --pick
  purplerepo enrich --pick --file registry/repo-list.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichPick, "pick", false, "Pick the repository interactively from the registry file")
	enrichCmd.Flags().StringVar(&enrichFile, "file", "", "Registry file used with --pick (default from config, repo-list.yaml)")
}

func runEnrich(_ *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load purplerepo config: %w", err)
	}

	githubURL, err := resolveEnrichTarget(cfg, args)
	if err != nil {
		return err
	}

	owner, repo, err := enrich.ParseRepoURL(githubURL)
	if err != nil {
		return err
	}

	token, err := cfg.GitHubToken()
	if err != nil {
		return err
	}

	client := enrich.NewClient(token)
	enrichment, err := client.Enrich(context.Background(), owner, repo)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(enrichment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment: %w", err)
	}
	fmt.Println(string(payload))

	return nil
}

// resolveEnrichTarget returns the URL to enrich, either from the argument
// or by interactive selection from the registry file.
func resolveEnrichTarget(cfg *config.Config, args []string) (string, error) {
	if !enrichPick {
		if len(args) != 1 {
			return "", fmt.Errorf("a GitHub repository URL is required unless --pick is used")
		}
		return args[0], nil
	}

	file := enrichFile
	if file == "" {
		file = cfg.RegistryFile()
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read registry file: %w", err)
	}

	records, err := registry.ParseSnapshot(content)
	if err != nil {
		return "", err
	}

	return picker.New("Select repository:").Pick(records)
}
