package picker

import (
	"errors"
	"strings"
	"testing"

	fzf "github.com/junegunn/fzf/src"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkquasar/purplerepo/pkg/registry"
)

type failingRunner struct{}

func (failingRunner) Run(_ *fzf.Options) (int, error) {
	return fzf.ExitError, errors.New("no tty")
}

func testRecords() []registry.Record {
	return []registry.Record{
		{URL: "https://github.com/org/alpha", Contributor: "alice"},
		{URL: "https://github.com/org/bravo", Contributor: "bob"},
		{URL: "https://github.com/org/charlie"},
	}
}

func TestPickEmptyRegistry(t *testing.T) {
	picker := NewWithRunner("pick:", failingRunner{}, strings.NewReader(""))

	_, err := picker.Pick(nil)
	assert.Error(t, err)
}

func TestPickFallsBackWhenEngineFails(t *testing.T) {
	picker := NewWithRunner("pick:", failingRunner{}, strings.NewReader("2\n"))

	url, err := picker.Pick(testRecords())
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/org/bravo", url)
}

func TestNumberedPickInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not a number", input: "abc\n"},
		{name: "zero", input: "0\n"},
		{name: "out of range", input: "9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picker := NewWithRunner("pick:", failingRunner{}, strings.NewReader(tt.input))

			_, err := picker.Pick(testRecords())
			assert.Error(t, err)
		})
	}
}

func TestDisplayLine(t *testing.T) {
	withContributor := registry.Record{URL: "https://github.com/org/alpha", Contributor: "alice"}
	assert.Equal(t, "https://github.com/org/alpha  │  alice", displayLine(withContributor))

	bare := registry.Record{URL: "https://github.com/org/charlie"}
	assert.Equal(t, "https://github.com/org/charlie", displayLine(bare))
}
