package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/darkquasar/purplerepo/pkg/actions"
	"github.com/darkquasar/purplerepo/pkg/config"
	"github.com/darkquasar/purplerepo/pkg/gitsource"
	"github.com/darkquasar/purplerepo/pkg/registry"
)

var (
	detectOldRef       string
	detectNewRef       string
	detectFile         string
	detectRepoPath     string
	detectOutput       string
	detectEnforceLimit bool
	detectMaxChanges   int
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect registry changes between two git revisions",
	Long: `Compare two versions of the registry document and emit one JSON change
payload per added or removed repository entry.

The registry file is read directly from the git object store at both
revisions, so the working tree is never touched. Entries are matched by
repo_url; duplicate entries for the same URL are consolidated into a
single payload with merged contributor names and tags. A URL that is both
added and removed between the two revisions is ambiguous and dropped from
both sides.

When running inside GitHub Actions ($GITHUB_OUTPUT set), the command also
appends has_changes, payloads_count, and payloads step outputs for the
downstream workflow.

Examples:
  # Compare the two most recent commits
  purplerepo detect --old-ref HEAD~1 --new-ref HEAD

  # Compare explicit SHAs and save payloads to a file
  purplerepo detect --old-ref 2f9d3a1 --new-ref 8c41be7 --output payloads.json

  # Refuse batches larger than 15 consolidated changes
  purplerepo detect --old-ref HEAD~1 --new-ref HEAD --enforce-limit`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectOldRef, "old-ref", "", "Old revision (SHA, branch, tag, or rev expression)")
	detectCmd.Flags().StringVar(&detectNewRef, "new-ref", "", "New revision (SHA, branch, tag, or rev expression)")
	detectCmd.Flags().StringVar(&detectFile, "file", "", "Path of the registry document inside the repository (default from config, repo-list.yaml)")
	detectCmd.Flags().StringVar(&detectRepoPath, "repo-path", ".", "Path to the git repository")
	detectCmd.Flags().StringVar(&detectOutput, "output", "", "Write the JSON payload array to this file")
	detectCmd.Flags().BoolVar(&detectEnforceLimit, "enforce-limit", false, "Refuse the whole batch when the consolidated change count exceeds the limit")
	detectCmd.Flags().IntVar(&detectMaxChanges, "max-changes", 0, "Change-count limit used with --enforce-limit (default from config, 15)")
	_ = detectCmd.MarkFlagRequired("old-ref")
	_ = detectCmd.MarkFlagRequired("new-ref")
}

func runDetect(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load purplerepo config: %w", err)
	}

	file := detectFile
	if file == "" {
		file = cfg.RegistryFile()
	}

	opts := registry.Options{
		EnforceLimit: detectEnforceLimit || cfg.Registry.EnforceLimit,
		MaxChanges:   detectMaxChanges,
	}
	if opts.MaxChanges == 0 {
		opts.MaxChanges = cfg.Registry.MaxChanges
	}

	logger.Info().
		Str("file", file).
		Str("old_ref", detectOldRef).
		Str("new_ref", detectNewRef).
		Msg("comparing registry snapshots")

	source, err := gitsource.Open(detectRepoPath)
	if err != nil {
		return err
	}

	oldContent, err := source.FileAt(detectOldRef, file)
	if err != nil {
		return fmt.Errorf("failed to fetch old snapshot: %w", err)
	}
	newContent, err := source.FileAt(detectNewRef, file)
	if err != nil {
		return fmt.Errorf("failed to fetch new snapshot: %w", err)
	}

	// A malformed snapshot is recoverable for the parser, but a CI gate
	// must not treat half a diff as truth; abort instead.
	oldRecords, err := registry.ParseSnapshot(oldContent)
	if err != nil {
		logger.Error().Err(err).Str("ref", detectOldRef).Msg("old snapshot is malformed")
		return fmt.Errorf("old snapshot at %s: %w", detectOldRef, err)
	}
	newRecords, err := registry.ParseSnapshot(newContent)
	if err != nil {
		logger.Error().Err(err).Str("ref", detectNewRef).Msg("new snapshot is malformed")
		return fmt.Errorf("new snapshot at %s: %w", detectNewRef, err)
	}

	logger.Info().
		Int("old_entries", len(oldRecords)).
		Int("new_entries", len(newRecords)).
		Msg("parsed snapshots")

	result, err := registry.Diff(oldRecords, newRecords, opts)
	if err != nil {
		var limitErr *registry.LimitExceededError
		if errors.As(err, &limitErr) {
			logger.Error().
				Int("count", limitErr.Count).
				Int("limit", limitErr.Limit).
				Msg("refusing batch, change limit exceeded")
		}
		return err
	}

	if len(result.Conflicts) > 0 {
		logger.Warn().
			Strs("urls", result.Conflicts).
			Msg("conflicting urls dropped from both the added and removed sets")
	}

	if err := reportChanges(logger, result); err != nil {
		return err
	}

	if path := actions.OutputPath(); path != "" {
		outputs, err := actions.ChangeOutputs(result.Changes)
		if err != nil {
			return err
		}
		if err := actions.Append(path, outputs); err != nil {
			return err
		}
	}

	return nil
}

// reportChanges prints the payloads for humans and optionally writes the
// JSON array to the --output file.
func reportChanges(logger zerolog.Logger, result *registry.Result) error {
	if !result.HasChanges() {
		fmt.Println("No repository entry changes found")
		return nil
	}

	fmt.Printf("Found %d repository entry change(s):\n", len(result.Changes))
	for _, change := range result.Changes {
		marker := "+"
		if change.Action == registry.ActionRemove {
			marker = "-"
		}
		fmt.Printf("  %s %s (contributor: %s)\n", marker, change.URL, change.Contributor)
	}

	payloads, err := json.MarshalIndent(result.Changes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal change payloads: %w", err)
	}
	fmt.Println(string(payloads))

	if detectOutput != "" {
		if err := os.WriteFile(detectOutput, payloads, 0644); err != nil {
			return fmt.Errorf("failed to write payload file: %w", err)
		}
		logger.Info().Str("path", detectOutput).Msg("payloads saved")
	}

	return nil
}
