// Package ssl loads the certificate used to serve HTTPS, either from local
// files or downloaded from URLs into a cache directory.
package ssl

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/amaumene/gostreamfr/pkg/logger"
)

const (
	certFileName = "server.pem"
	keyFileName  = "server.key"

	keyFileMode = 0600
	dirMode     = 0755

	// DefaultMaxAge is how long downloaded certificates are reused
	DefaultMaxAge = 7 * 24 * time.Hour
)

// Options selects where the certificate comes from. Local files win over URLs.
type Options struct {
	CertFile string
	KeyFile  string
	CertURL  string
	KeyURL   string
	CacheDir string
	MaxAge   time.Duration
}

// Certificate resolves and loads a certificate/key pair.
type Certificate struct {
	opts     Options
	client   *http.Client
	logger   logger.Logger
	certPath string
	keyPath  string
	now      func() time.Time
}

// NewCertificate creates a Certificate. client is only used for downloads.
func NewCertificate(opts Options, client *http.Client, log logger.Logger) *Certificate {
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(os.TempDir(), "gostreamfr-ssl")
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	return &Certificate{
		opts:   opts,
		client: client,
		logger: log,
		now:    time.Now,
	}
}

// Setup makes the certificate files available, downloading them when they
// are missing or older than MaxAge.
func (c *Certificate) Setup(ctx context.Context) error {
	if c.opts.CertFile != "" {
		c.certPath, c.keyPath = c.opts.CertFile, c.opts.KeyFile
		c.logger.Infof("[SSL] using certificate %s", c.certPath)
		return nil
	}
	if c.opts.CertURL == "" {
		return errors.New("no certificate source configured")
	}

	c.certPath = filepath.Join(c.opts.CacheDir, certFileName)
	c.keyPath = filepath.Join(c.opts.CacheDir, keyFileName)

	if c.fresh() {
		c.logger.Debugf("[SSL] reusing cached certificate in %s", c.opts.CacheDir)
		return nil
	}

	if err := os.MkdirAll(c.opts.CacheDir, dirMode); err != nil {
		return errors.Wrap(err, "failed to create certificate cache directory")
	}
	if err := c.download(ctx, c.opts.CertURL, c.certPath); err != nil {
		return errors.Wrap(err, "failed to download certificate")
	}
	if err := c.download(ctx, c.opts.KeyURL, c.keyPath); err != nil {
		return errors.Wrap(err, "failed to download private key")
	}
	if err := os.Chmod(c.keyPath, keyFileMode); err != nil {
		return errors.Wrap(err, "failed to set key permissions")
	}

	c.logger.Infof("[SSL] certificate downloaded to %s", c.opts.CacheDir)
	return nil
}

// TLSConfig loads the key pair prepared by Setup.
func (c *Certificate) TLSConfig() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.certPath, c.keyPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load certificate")
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Paths returns the certificate and key file paths.
func (c *Certificate) Paths() (certPath, keyPath string) {
	return c.certPath, c.keyPath
}

// fresh reports whether both cached files exist and the certificate is
// younger than MaxAge.
func (c *Certificate) fresh() bool {
	info, err := os.Stat(c.certPath)
	if err != nil {
		return false
	}
	if _, err := os.Stat(c.keyPath); err != nil {
		return false
	}
	return c.now().Sub(info.ModTime()) < c.opts.MaxAge
}

func (c *Certificate) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
