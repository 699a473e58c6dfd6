package conn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"time"

	"github.com/jlaffaye/ftp"
	"go.uber.org/zap"

	"github.com/datapipes/downpipe/internal/tmpio"
)

// FTPConnection downloads files over FTP. The connection is established on
// first use and reused; a transient or EOF fault during a download triggers
// one reconnect-and-retry.
type FTPConnection struct {
	host     string
	user     string
	password string
	logger   *zap.Logger
	conn     *ftp.ServerConn
}

// NewFTP builds a lazy FTP connection. A nil logger disables logging.
func NewFTP(host, user, password string, logger *zap.Logger) *FTPConnection {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("ftp connection deferred until first use",
		zap.String("host", host), zap.String("user", user))
	return &FTPConnection{host: host, user: user, password: password, logger: logger}
}

func (c *FTPConnection) connect(ctx context.Context) (*ftp.ServerConn, error) {
	if c.conn != nil {
		return c.conn, nil
	}
	conn, err := ftp.Dial(hostAddr(c.host, "21"),
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("could not connect to ftp server %s: %w", c.host, err)
	}
	if err := conn.Login(c.user, c.password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("could not connect to ftp server %s: %w", c.host, err)
	}
	c.conn = conn
	c.logger.Info("ftp connection established", zap.String("host", c.host))
	return conn, nil
}

// reconnect drops the current connection and dials again.
func (c *FTPConnection) reconnect(ctx context.Context) (*ftp.ServerConn, error) {
	if c.conn != nil {
		c.conn.Quit()
		c.conn = nil
	}
	return c.connect(ctx)
}

// Download retrieves the remote file into a unique local temp file and
// returns the local path. On a transient (4xx) or EOF fault it reconnects
// once and retries; a second fault is returned.
func (c *FTPConnection) Download(ctx context.Context, name string) (string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	path, err := c.retrieve(conn, name)
	if transientFTP(err) {
		c.logger.Warn("ftp download interrupted, reconnecting",
			zap.String("remote", name), zap.Error(err))
		conn, err = c.reconnect(ctx)
		if err != nil {
			return "", err
		}
		path, err = c.retrieve(conn, name)
	}
	if err != nil {
		return "", fmt.Errorf("ftp download %s: %w", name, err)
	}
	c.logger.Debug("ftp file downloaded",
		zap.String("remote", name), zap.String("local", path))
	return path, nil
}

func (c *FTPConnection) retrieve(conn *ftp.ServerConn, name string) (string, error) {
	resp, err := conn.Retr(name)
	if err != nil {
		return "", err
	}
	defer resp.Close()
	f, path, err := tmpio.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp); err != nil {
		return "", err
	}
	return path, nil
}

// Contents lists the names under path.
func (c *FTPConnection) Contents(ctx context.Context, path string) ([]string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	names, err := conn.NameList(path)
	if err != nil {
		return nil, fmt.Errorf("ftp list %s: %w", path, err)
	}
	c.logger.Info("ftp contents listed",
		zap.String("path", path), zap.Int("entries", len(names)))
	return names, nil
}

// Close quits the session, if one was ever established.
func (c *FTPConnection) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Quit()
	c.conn = nil
	return err
}

// transientFTP reports whether err is a temporary server reply (4xx) or an
// unexpected EOF, the two faults worth one reconnect.
func transientFTP(err error) bool {
	if err == nil {
		return false
	}
	var proto *textproto.Error
	if errors.As(err, &proto) {
		return proto.Code >= 400 && proto.Code < 500
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
