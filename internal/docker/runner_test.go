package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/gmxpipe/internal/gmx"
)

// The argument construction is tested directly because the full runner
// needs a reachable Docker daemon.

func TestDockerArgs(t *testing.T) {
	r := &ContainerRunner{Image: "gromacs/gromacs", WorkDir: "/home/user/run"}

	args := r.dockerArgs(gmx.Command{Args: []string{"editconf", "-f", "topology/conf.gro"}})
	assert.Equal(t, []string{
		"run", "--rm", "-i",
		"-v", "/home/user/run:/work",
		"-w", "/work",
		"gromacs/gromacs", "gmx",
		"editconf", "-f", "topology/conf.gro",
	}, args)
}

// A command carrying its own directory overrides the runner's mount.
func TestDockerArgsCommandDir(t *testing.T) {
	r := &ContainerRunner{Image: "gromacs/gromacs", WorkDir: "/home/user/run"}

	args := r.dockerArgs(gmx.Command{Args: []string{"mdrun"}, Dir: "/data/other"})
	assert.Contains(t, args, "/data/other:/work")
	assert.NotContains(t, args, "/home/user/run:/work")
}

func TestContainerRunnerDescribe(t *testing.T) {
	r := &ContainerRunner{Image: "gromacs/gromacs:2024", WorkDir: "/run"}

	line := r.Describe(gmx.Command{Args: []string{"--version"}})
	assert.Equal(t, "docker run --rm -i -v /run:/work -w /work gromacs/gromacs:2024 gmx --version", line)
}
