package prep

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// Workspace subdirectories created for a preparation run. Each stage
// writes its outputs into its own directory; production/ is created
// empty for the runs that follow equilibration.
var workspaceDirs = []string{
	"topology",
	"box",
	"solv_ions",
	"em",
	filepath.Join("equil", "NVT"),
	filepath.Join("equil", "NPT"),
	"production",
}

// topologyDir is where the input files are staged. The structure (.gro)
// and topology (.top) files are looked up there, and genion/grompp
// update the topology in place as the pipeline progresses.
const topologyDir = "topology"

// Inputs holds the discovered input files, as paths relative to the
// workspace root so they work both natively and inside a container.
type Inputs struct {
	// Structure is the initial coordinate file (exactly one *.gro).
	Structure string

	// Topology is the system topology file (exactly one *.top).
	Topology string
}

// SetupWorkspace creates the pipeline directory tree under workDir and
// copies every file from inputDir into the topology staging directory.
// It returns the discovered structure and topology files.
func SetupWorkspace(workDir, inputDir string) (Inputs, error) {
	for _, d := range workspaceDirs {
		if err := os.MkdirAll(filepath.Join(workDir, d), 0o755); err != nil {
			return Inputs{}, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to create workspace directory %s", d), err)
		}
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return Inputs{}, model.WrapCLIError(model.ExitInputError,
			fmt.Sprintf("failed to read input directory %s", inputDir), err)
	}

	dst := filepath.Join(workDir, topologyDir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(inputDir, entry.Name())
		if err := copyFile(src, filepath.Join(dst, entry.Name())); err != nil {
			return Inputs{}, model.WrapCLIError(model.ExitInputError,
				fmt.Sprintf("failed to stage input file %s", entry.Name()), err)
		}
	}

	return discoverInputs(workDir)
}

// discoverInputs locates the staged structure and topology files.
// Exactly one of each must exist — an ambiguous or empty staging
// directory is an input error, reported before any tool runs.
func discoverInputs(workDir string) (Inputs, error) {
	groList, err := filepath.Glob(filepath.Join(workDir, topologyDir, "*.gro"))
	if err != nil {
		return Inputs{}, model.WrapCLIError(model.ExitInputError, "failed to scan for .gro files", err)
	}
	topList, err := filepath.Glob(filepath.Join(workDir, topologyDir, "*.top"))
	if err != nil {
		return Inputs{}, model.WrapCLIError(model.ExitInputError, "failed to scan for .top files", err)
	}

	if len(groList) != 1 {
		return Inputs{}, model.NewCLIError(model.ExitInputError,
			fmt.Sprintf("expected exactly one .gro file in the input directory, found %d", len(groList)))
	}
	if len(topList) != 1 {
		return Inputs{}, model.NewCLIError(model.ExitInputError,
			fmt.Sprintf("expected exactly one .top file in the input directory, found %d", len(topList)))
	}

	// Paths are made relative to the workspace root because every gmx
	// command runs with the workspace as its working directory.
	gro, err := filepath.Rel(workDir, groList[0])
	if err != nil {
		return Inputs{}, model.WrapCLIError(model.ExitInputError, "failed to resolve structure path", err)
	}
	top, err := filepath.Rel(workDir, topList[0])
	if err != nil {
		return Inputs{}, model.WrapCLIError(model.ExitInputError, "failed to resolve topology path", err)
	}

	return Inputs{Structure: gro, Topology: top}, nil
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
