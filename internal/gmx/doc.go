// Package gmx provides the command runner for the GROMACS binary.
//
// All GROMACS operations are performed via os/exec calls to the gmx
// binary, rather than linking against any GROMACS library. This approach:
//   - Avoids CGO and a build-time GROMACS dependency
//   - Uses the exact same tool behavior the user sees in their terminal
//   - Works with whatever gmx build (MPI, GPU, containerized) is installed
//
// The package also contains the output scraping helpers that extract the
// box volume and net system charge from the tool's human-readable log.
// That scraping mirrors the labeled lines GROMACS prints and is brittle
// by construction — the message format is owned by GROMACS, not by us.
package gmx
