package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

func TestNewRootCommand(t *testing.T) {
	rootCmd := NewRootCommand()

	// Both pipelines are registered as subcommands.
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "prep")
	assert.Contains(t, names, "traj")

	// Global flags exist on the root and are inherited by subcommands.
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("json"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestPrepCommandFlags(t *testing.T) {
	cmd := NewPrepCommand()

	for _, name := range []string{
		"input", "mdp-dir", "output-dir", "log", "container", "gmx",
		"conc", "box-type", "clearance", "pname", "nname", "solvent-group",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag --%s should exist", name)
	}

	assert.Equal(t, ".", cmd.Flags().Lookup("output-dir").DefValue)
	assert.Equal(t, "prep_simulation.log", cmd.Flags().Lookup("log").DefValue)
}

func TestTrajCommandFlags(t *testing.T) {
	cmd := NewTrajCommand()

	for _, name := range []string{"input", "tpr", "output", "groups", "dt", "log"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag --%s should exist", name)
	}
	assert.Equal(t, "200", cmd.Flags().Lookup("dt").DefValue)
}

func TestParseGroups(t *testing.T) {
	groups, err := parseGroups([]string{"Protein", "System", "Protein", "System"})
	require.NoError(t, err)
	assert.Equal(t, [4]string{"Protein", "System", "Protein", "System"}, groups)
}

func TestParseGroupsEmptyUsesDefaults(t *testing.T) {
	groups, err := parseGroups(nil)
	require.NoError(t, err)
	assert.Equal(t, [4]string{}, groups, "empty flag leaves defaulting to the pipeline")
}

func TestParseGroupsWrongCount(t *testing.T) {
	_, err := parseGroups([]string{"Backbone", "System"})
	require.Error(t, err)

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}
