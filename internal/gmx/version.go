package gmx

import (
	"context"
	"errors"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// CheckInstall verifies that GROMACS is runnable through the given
// runner by executing `gmx --version`. Both pipelines probe the install
// before doing any work, so a missing or broken installation fails fast
// instead of midway through a multi-stage run.
//
// A failed probe is reported as ExitGmxNotFound regardless of why the
// probe command failed, since the distinction (binary missing vs. binary
// broken) does not change what the user has to fix.
func CheckInstall(ctx context.Context, r Runner) error {
	if _, err := r.Run(ctx, Command{Args: []string{"--version"}}); err != nil {
		// Container-mode probe errors already carry a Docker-specific
		// exit code; keep it instead of masking it as gmx-not-found.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) && cliErr.Code == model.ExitDockerNotRunning {
			return err
		}
		return model.WrapCLIError(model.ExitGmxNotFound,
			"GROMACS is not available (gmx --version failed)", err)
	}
	return nil
}
