package conn

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/datapipes/downpipe/internal/tmpio"
)

// SSHConnection downloads files over an SSH session by running remote
// commands. The connection is established on first use and reused.
type SSHConnection struct {
	host    string
	user    string
	keyFile string
	logger  *zap.Logger
	client  *ssh.Client
}

// NewSSH builds a lazy SSH connection authenticating with the private key at
// keyFile. A nil logger disables logging.
func NewSSH(host, user, keyFile string, logger *zap.Logger) *SSHConnection {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("ssh connection deferred until first use",
		zap.String("host", host), zap.String("user", user))
	return &SSHConnection{host: host, user: user, keyFile: keyFile, logger: logger}
}

func (c *SSHConnection) connect(ctx context.Context) (*ssh.Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	key, err := os.ReadFile(c.keyFile)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s with ssh: %w", c.host, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s with ssh: %w", c.host, err)
	}
	cfg := &ssh.ClientConfig{
		User:            c.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}
	addr := hostAddr(c.host, "22")
	var d net.Dialer
	netConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s with ssh: %w", c.host, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, cfg)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("could not connect to %s with ssh: %w", c.host, err)
	}
	c.client = ssh.NewClient(sshConn, chans, reqs)
	c.logger.Info("ssh connection established", zap.String("host", c.host))
	return c.client, nil
}

// Download reads the remote file and writes it to a unique local temp file,
// returning the local path.
func (c *SSHConnection) Download(ctx context.Context, name string) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	out, err := c.run(client, "cat "+name)
	if err != nil {
		return "", fmt.Errorf("ssh download %s: %w", name, err)
	}
	path, err := tmpio.WriteTemp(name, out)
	if err != nil {
		return "", err
	}
	c.logger.Debug("ssh file downloaded",
		zap.String("remote", name), zap.String("local", path))
	return path, nil
}

// Contents lists the names under path.
func (c *SSHConnection) Contents(ctx context.Context, path string) ([]string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	out, err := c.run(client, "ls "+path)
	if err != nil {
		return nil, fmt.Errorf("ssh list %s: %w", path, err)
	}
	names := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	c.logger.Info("ssh contents listed",
		zap.String("path", path), zap.Int("entries", len(names)))
	return names, nil
}

func (c *SSHConnection) run(client *ssh.Client, cmd string) ([]byte, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()
	return session.Output(cmd)
}

// Close tears down the underlying client, if one was ever established.
func (c *SSHConnection) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}
