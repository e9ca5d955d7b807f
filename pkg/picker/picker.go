// Package picker provides interactive selection of a registry entry,
// using the fzf engine when available and a plain numbered prompt as the
// fallback.
package picker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	fzf "github.com/junegunn/fzf/src"

	"github.com/darkquasar/purplerepo/pkg/registry"
)

const displaySeparator = "  │  "

var errEngineFailed = errors.New("fzf engine failed")

// Runner abstracts the fzf engine so tests can stub it.
type Runner interface {
	Run(opts *fzf.Options) (int, error)
}

type fzfRunner struct{}

func (fzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// Picker selects one registry record interactively and returns its URL.
type Picker struct {
	prompt string
	runner Runner
	input  io.Reader
}

// New creates a picker with the given prompt.
func New(prompt string) *Picker {
	return &Picker{prompt: prompt, runner: fzfRunner{}, input: os.Stdin}
}

// NewWithRunner creates a picker with a custom fzf runner and fallback
// input stream, for testing.
func NewWithRunner(prompt string, runner Runner, input io.Reader) *Picker {
	return &Picker{prompt: prompt, runner: runner, input: input}
}

// Pick presents the registry entries and returns the chosen entry's URL.
// When the fzf engine cannot run at all, selection falls back to a
// numbered prompt; a cancelled fzf session is an error, not a fallback.
func (p *Picker) Pick(records []registry.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("registry has no entries to pick from")
	}

	url, err := p.fzfPick(records)
	if errors.Is(err, errEngineFailed) {
		return p.numberedPick(records)
	}
	return url, err
}

func displayLine(record registry.Record) string {
	if record.Contributor == "" {
		return record.URL
	}
	return record.URL + displaySeparator + record.Contributor
}

// fzfPick runs the fzf engine over the entries. The engine reads
// candidates from stdin and prints the selection to stdout, so both are
// temporarily redirected around the run.
func (p *Picker) fzfPick(records []registry.Record) (string, error) {
	tmp, err := os.CreateTemp("", "purplerepo-pick-*.txt")
	if err != nil {
		return "", errEngineFailed
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	for _, record := range records {
		if _, err := fmt.Fprintln(tmp, displayLine(record)); err != nil {
			_ = tmp.Close()
			return "", errEngineFailed
		}
	}
	if err := tmp.Close(); err != nil {
		return "", errEngineFailed
	}

	opts, err := fzf.ParseOptions(true, []string{
		"--prompt=" + p.prompt + " ",
		"--height=10",
		"--layout=default",
		"--no-multi",
		"--cycle",
		"--no-mouse",
		"--border=none",
	})
	if err != nil {
		return "", errEngineFailed
	}

	candidates, err := os.Open(tmp.Name())
	if err != nil {
		return "", errEngineFailed
	}
	defer func() {
		_ = candidates.Close()
	}()

	originalStdin := os.Stdin
	originalStdout := os.Stdout
	defer func() {
		os.Stdin = originalStdin
		os.Stdout = originalStdout
	}()

	reader, writer, err := os.Pipe()
	if err != nil {
		return "", errEngineFailed
	}
	defer func() {
		_ = reader.Close()
	}()

	os.Stdin = candidates
	os.Stdout = writer

	exitCode, err := p.runner.Run(opts)

	_ = writer.Close()
	os.Stdout = originalStdout

	if err != nil {
		return "", errEngineFailed
	}
	if exitCode != fzf.ExitOk {
		return "", fmt.Errorf("selection cancelled")
	}

	selected, err := io.ReadAll(reader)
	if err != nil {
		return "", errEngineFailed
	}

	line := strings.TrimSpace(string(selected))
	if line == "" {
		return "", fmt.Errorf("no selection made")
	}

	url, _, _ := strings.Cut(line, displaySeparator)
	return strings.TrimSpace(url), nil
}

// numberedPick lists the entries with indices and reads a selection from
// the input stream.
func (p *Picker) numberedPick(records []registry.Record) (string, error) {
	fmt.Println(p.prompt)
	for i, record := range records {
		fmt.Printf("%d. %s\n", i+1, displayLine(record))
	}
	fmt.Printf("\nSelect entry (1-%d): ", len(records))

	line, err := bufio.NewReader(p.input).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return "", fmt.Errorf("invalid selection: %s", strings.TrimSpace(line))
	}
	if choice < 1 || choice > len(records) {
		return "", fmt.Errorf("selection out of range: %d", choice)
	}

	return records[choice-1].URL, nil
}
