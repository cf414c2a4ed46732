package docker

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"

	"github.com/mmr-tortoise/gmxpipe/internal/gmx"
	"github.com/mmr-tortoise/gmxpipe/internal/logger"
	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// ContainerRunner implements gmx.Runner by executing gmx inside a
// GROMACS Docker image. The host working directory is bind-mounted at
// /work, so the pipelines' relative paths resolve identically in native
// and container mode.
type ContainerRunner struct {
	// Image is the GROMACS image reference, e.g. "gromacs/gromacs".
	Image string

	// WorkDir is the absolute host directory mounted into the container.
	// Commands that carry their own Dir override it per invocation.
	WorkDir string
}

// NewContainerRunner creates a ContainerRunner for the given image and
// host working directory. It verifies daemon reachability up front and
// logs whether the image is already present; a missing image is not an
// error because `docker run` pulls it on first use.
func NewContainerRunner(ctx context.Context, img, workDir string) (*ContainerRunner, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			"failed to resolve container working directory", err)
	}

	cli, err := NewClient()
	if err != nil {
		return nil, err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return nil, err
	}

	present, err := imagePresent(ctx, cli, img)
	if err != nil {
		return nil, err
	}
	if present {
		logger.L().Debug("container image present", "image", img)
	} else {
		logger.L().Info("container image not present, docker run will pull it", "image", img)
	}

	return &ContainerRunner{Image: img, WorkDir: absDir}, nil
}

// imagePresent reports whether the image is already in the local store.
// The reference filter makes the daemon do the matching server-side.
func imagePresent(ctx context.Context, cli *Client, img string) (bool, error) {
	filterArgs := filters.NewArgs(filters.Arg("reference", img))

	images, err := cli.Inner().ImageList(ctx, image.ListOptions{Filters: filterArgs})
	if err != nil {
		return false, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker images",
			err,
		)
	}
	return len(images) > 0, nil
}

// Run executes gmx inside the container with the same contract as the
// native runner: combined stdout+stderr on success, a CLIError carrying
// the full output on non-zero exit.
func (r *ContainerRunner) Run(ctx context.Context, cmd gmx.Command) (string, error) {
	args := r.dockerArgs(cmd)

	// #nosec G204 — args are constructed internally, not from user input
	c := exec.CommandContext(ctx, "docker", args...)
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	output, err := c.CombinedOutput()
	if err != nil {
		return "", model.WrapCLIError(
			model.ExitGmxFailed,
			fmt.Sprintf("%s failed:\n%s", r.Describe(cmd), strings.TrimSpace(string(output))),
			err,
		)
	}
	return string(output), nil
}

// Describe returns the docker command line Run would execute.
func (r *ContainerRunner) Describe(cmd gmx.Command) string {
	return model.FormatCommand(append([]string{"docker"}, r.dockerArgs(cmd)...))
}

// dockerArgs builds the `docker run` argument list for a gmx invocation.
// The -i flag keeps stdin open for the scripted prompt answers, and
// --rm discards the container after the single command.
func (r *ContainerRunner) dockerArgs(cmd gmx.Command) []string {
	hostDir := cmd.Dir
	if hostDir == "" {
		hostDir = r.WorkDir
	}

	args := make([]string, 0, len(cmd.Args)+10)
	args = append(args, "run", "--rm", "-i")
	args = append(args, "-v", hostDir+":/work")
	args = append(args, "-w", "/work")
	args = append(args, r.Image, "gmx")
	args = append(args, cmd.Args...)
	return args
}
