package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// defaultPingTimeout is the maximum duration to wait for a Docker daemon
// response during a Ping operation. 5 seconds is generous enough for most
// environments, including Docker Desktop on macOS which can be slower
// than native Linux Docker.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client. It handles automatic Docker
// socket detection across platforms (Linux, macOS, Windows) and provides
// methods for verifying daemon connectivity and image availability.
//
// Usage:
//
//	c, err := docker.NewClient()
//	if err != nil { /* handle */ }
//	defer c.Close()
//	if err := c.Ping(ctx); err != nil { /* Docker not running */ }
type Client struct {
	// inner is the underlying Docker SDK client. We wrap it rather than
	// embedding it to control the exposed API surface.
	inner *client.Client
}

// NewClient creates a new Docker client with automatic socket detection.
//
// The detection strategy follows this priority order:
//  1. DOCKER_HOST environment variable (if set, used as-is)
//  2. Platform-specific default socket paths:
//     - Linux: /var/run/docker.sock
//     - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//     - Windows: npipe:////./pipe/docker_engine (Docker Named Pipe)
//
// Returns a model.CLIError with ExitDockerNotRunning if no Docker socket
// is found or the client cannot be created.
func NewClient() (*Client, error) {
	// When DOCKER_HOST is set we respect it unconditionally and let the
	// Docker SDK handle the connection string parsing.
	dockerHost := os.Getenv("DOCKER_HOST")
	if dockerHost != "" {
		return newClientWithHost(dockerHost)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker socket not found",
			err,
		)
	}

	return newClientWithHost(host)
}

// newClientWithHost creates a Docker client connected to the specified
// host. The host parameter should be a valid Docker connection string
// (e.g., "unix:///var/run/docker.sock" or "npipe:////./pipe/docker_engine").
func newClientWithHost(host string) (*Client, error) {
	// WithAPIVersionNegotiation ensures compatibility across daemon
	// versions without hardcoding a specific API version.
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}

	return &Client{inner: c}, nil
}

// detectDockerHost determines the Docker socket path for the current
// platform. It probes known socket paths and returns the first one that
// exists. Existence checks are fast and don't require a running daemon;
// the Ping method handles connectivity verification.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
		})

	case "darwin":
		// macOS has two possible socket locations: the standard path
		// (Docker Desktop creates a symlink there) and the per-user path
		// used by newer Docker Desktop versions.
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return detectUnixSocket([]string{
				"/var/run/docker.sock",
			})
		}
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
			homeDir + "/.docker/run/docker.sock",
		})

	case "windows":
		// Windows uses Named Pipes for Docker communication. os.Stat does
		// not work on named pipes, so probe with a brief dial instead.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err == nil {
			conn.Close()
			return "npipe://" + pipePath, nil
		}
		return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectUnixSocket returns the first existing socket path from the
// candidates, formatted as a unix:// connection string.
func detectUnixSocket(candidates []string) (string, error) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("no Docker socket found (checked: %v)", candidates)
}

// Ping verifies that the Docker daemon is reachable and responding.
// Returns a model.CLIError with ExitDockerNotRunning on failure.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker daemon is not responding",
			err,
		)
	}
	return nil
}

// Inner exposes the underlying SDK client for API calls not wrapped
// by this package.
func (c *Client) Inner() *client.Client {
	return c.inner
}

// Close releases the client's resources. Always call it when done.
func (c *Client) Close() error {
	return c.inner.Close()
}
