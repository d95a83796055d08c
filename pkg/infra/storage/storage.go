// Package storage opens ledgers on the local disk, standard streams or Google Cloud Storage.
package storage

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"

	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
)

var _ interfaces.Storage = (*Storage)(nil)

// Stdio is the location of standard input or output
const Stdio = "-"

const gcsScheme = "gs://"

// ErrInvalidLocation tags malformed locations
var ErrInvalidLocation = goerr.NewTag("invalid_location")

type config struct {
	stdin      io.Reader
	stdout     io.Writer
	gcsOptions []option.ClientOption
}

// Option is a functional option for Storage
type Option func(*config)

// WithStdio replaces os.Stdin and os.Stdout
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(c *config) {
		c.stdin = in
		c.stdout = out
	}
}

// WithGCSOptions passes options to the Cloud Storage client
func WithGCSOptions(opts ...option.ClientOption) Option {
	return func(c *config) {
		c.gcsOptions = append(c.gcsOptions, opts...)
	}
}

// Storage implements interfaces.Storage. The Cloud Storage client is created on first use.
type Storage struct {
	cfg config

	mu  sync.Mutex
	gcs *storage.Client
}

// New creates a Storage
func New(opts ...Option) *Storage {
	cfg := config{stdin: os.Stdin, stdout: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Storage{cfg: cfg}
}

// Close releases the Cloud Storage client if one was created
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gcs == nil {
		return nil
	}
	err := s.gcs.Close()
	s.gcs = nil
	return err
}

// NewReader opens location for reading
func (s *Storage) NewReader(ctx context.Context, location string) (io.ReadCloser, error) {
	if location == Stdio {
		return io.NopCloser(s.cfg.stdin), nil
	}
	if strings.HasPrefix(location, gcsScheme) {
		obj, err := s.object(ctx, location)
		if err != nil {
			return nil, err
		}
		r, err := obj.NewReader(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open object", goerr.V("location", location))
		}
		return r, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open file", goerr.V("location", location))
	}
	return f, nil
}

// NewWriter opens location for writing. For Cloud Storage the object is
// only committed when the writer is closed.
func (s *Storage) NewWriter(ctx context.Context, location string) (io.WriteCloser, error) {
	if location == Stdio {
		return nopWriteCloser{s.cfg.stdout}, nil
	}
	if strings.HasPrefix(location, gcsScheme) {
		obj, err := s.object(ctx, location)
		if err != nil {
			return nil, err
		}
		w := obj.NewWriter(ctx)
		w.ContentType = "text/plain; charset=utf-8"
		return w, nil
	}

	f, err := os.Create(location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create file", goerr.V("location", location))
	}
	return f, nil
}

func (s *Storage) object(ctx context.Context, location string) (*storage.ObjectHandle, error) {
	bucket, object, err := ParseGCSLocation(location)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gcs == nil {
		client, err := storage.NewClient(ctx, s.cfg.gcsOptions...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
		}
		s.gcs = client
	}
	return s.gcs.Bucket(bucket).Object(object), nil
}

// ParseGCSLocation splits gs://bucket/object
func ParseGCSLocation(location string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(location, gcsScheme)
	if !ok {
		return "", "", goerr.New("not a Cloud Storage location", goerr.T(ErrInvalidLocation), goerr.V("location", location))
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", goerr.New("Cloud Storage location needs a bucket and an object", goerr.T(ErrInvalidLocation), goerr.V("location", location))
	}
	return bucket, object, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
