// Package docker runs GROMACS inside an official GROMACS container
// image for hosts without a native install.
//
// The Docker Engine SDK is used for daemon queries (socket detection,
// ping, image presence), while the actual gmx invocation shells out to
// `docker run`, which accepts the same CLI flags users are familiar
// with and keeps the stdin/combined-output contract identical to the
// native runner.
package docker
