package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
)

// SFTPSource downloads the inventory export from an SFTP drop directory.
type SFTPSource struct {
	cfg     config.SFTPConfig
	timeout time.Duration
	logger  *logger.Logger
	hostKey ssh.HostKeyCallback
	tempDir string
}

// NewSFTPSource creates an SFTP source. A zero timeout disables the deadline.
func NewSFTPSource(cfg config.SFTPConfig, timeout time.Duration, log *logger.Logger) (*SFTPSource, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrMissingHost
	}

	if log == nil {
		log = logger.NewNop()
	}

	callback, err := hostKeyCallback(cfg.HostKey)
	if err != nil {
		return nil, err
	}

	return &SFTPSource{
		cfg:     cfg,
		timeout: timeout,
		logger:  log.With("host", cfg.Host),
		hostKey: callback,
	}, nil
}

func hostKeyCallback(authorizedKey string) (ssh.HostKeyCallback, error) {
	if strings.TrimSpace(authorizedKey) == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(authorizedKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHostKey, err)
	}

	return ssh.FixedHostKey(key), nil
}

// Fetch connects, picks the first CSV file of the configured directory in
// lexical order and downloads it to a temporary file.
func (s *SFTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)

		defer cancel()
	}

	addr := s.cfg.Address()
	s.logger.Info("Connecting to SFTP", "addr", addr, "user", s.cfg.Username)

	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, &ssh.ClientConfig{
		User:            s.cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(s.cfg.Password)},
		HostKeyCallback: s.hostKey,
		Timeout:         s.timeout,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}

	sshClient := ssh.NewClient(sshConn, chans, reqs)
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, fmt.Errorf("failed to start sftp session: %w", err)
	}
	defer client.Close()

	snapshot, err := s.download(ctx, client)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ctx.Err(), err)
	}

	return snapshot, err
}

func (s *SFTPSource) download(ctx context.Context, client *sftp.Client) (*Snapshot, error) {
	dir := s.cfg.Directory
	if dir == "" {
		dir = "."
	}

	entries, err := client.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string

	for _, e := range entries {
		if e.Mode().IsRegular() {
			names = append(names, e.Name())
		}
	}

	name, err := pickCSV(names)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, dir)
	}

	s.logger.Info("Found CSV file", "file", name, "candidates", len(names))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	remote, err := client.Open(path.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer remote.Close()

	local, err := os.CreateTemp(s.tempDir, "inventory-*.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, copyErr := io.Copy(local, remote)
	closeErr := local.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(local.Name())

		if copyErr != nil {
			return nil, fmt.Errorf("failed to download %s: %w", name, copyErr)
		}

		return nil, fmt.Errorf("failed to write %s: %w", local.Name(), closeErr)
	}

	s.logger.Info("Downloaded inventory", "file", name, "bytes", size)

	return &Snapshot{
		Path:      local.Name(),
		Name:      name,
		Size:      size,
		FetchedAt: time.Now(),
		Temporary: true,
	}, nil
}
