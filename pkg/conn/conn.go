package conn

import (
	"context"
	"net"
	"strings"
)

// Remote is the surface pipeline stages consume: fetch one file into a local
// temp path, or list a directory.
type Remote interface {
	Download(ctx context.Context, name string) (string, error)
	Contents(ctx context.Context, path string) ([]string, error)
}

// hostAddr appends the default port when host carries none.
func hostAddr(host, defaultPort string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return net.JoinHostPort(host, defaultPort)
}
