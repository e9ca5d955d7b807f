// Package actions emits machine-readable step outputs for GitHub Actions
// workflows via the $GITHUB_OUTPUT file protocol.
package actions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/darkquasar/purplerepo/pkg/registry"
)

// OutputEnvVar names the environment variable holding the step-output
// file path inside a workflow run.
const OutputEnvVar = "GITHUB_OUTPUT"

// Output is one key=value step output.
type Output struct {
	Key   string
	Value string
}

// OutputPath returns the configured step-output file path, or empty when
// not running under GitHub Actions.
func OutputPath() string {
	return os.Getenv(OutputEnvVar)
}

// Append appends the given outputs to the step-output file. The format is
// one bare key=value line per output; values must not contain newlines.
func Append(path string, outputs []Output) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open step output file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	for _, output := range outputs {
		if _, err := fmt.Fprintf(f, "%s=%s\n", output.Key, output.Value); err != nil {
			return fmt.Errorf("failed to write step output %s: %w", output.Key, err)
		}
	}

	return nil
}

// ChangeOutputs builds the step outputs the downstream workflow consumes:
// has_changes, payloads_count, and the payloads JSON array itself when
// there are any changes.
func ChangeOutputs(changes []registry.Change) ([]Output, error) {
	if len(changes) == 0 {
		return []Output{
			{Key: "has_changes", Value: "false"},
			{Key: "payloads_count", Value: "0"},
		}, nil
	}

	payloads, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change payloads: %w", err)
	}

	return []Output{
		{Key: "has_changes", Value: "true"},
		{Key: "payloads_count", Value: fmt.Sprintf("%d", len(changes))},
		{Key: "payloads", Value: string(payloads)},
	}, nil
}
