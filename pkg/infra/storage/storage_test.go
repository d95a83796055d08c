package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/ledgerkit/txcleanup/pkg/infra/storage"
)

func TestParseGCSLocation(t *testing.T) {
	tests := []struct {
		location   string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{location: "gs://bucket/ledger.beancount", wantBucket: "bucket", wantObject: "ledger.beancount"},
		{location: "gs://bucket/dir/ledger.beancount", wantBucket: "bucket", wantObject: "dir/ledger.beancount"},
		{location: "gs://bucket", wantErr: true},
		{location: "gs://bucket/", wantErr: true},
		{location: "gs:///object", wantErr: true},
		{location: "/tmp/ledger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			bucket, object, err := storage.ParseGCSLocation(tt.location)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, goerr.HasTag(err, storage.ErrInvalidLocation))
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, bucket, tt.wantBucket)
			gt.Equal(t, object, tt.wantObject)
		})
	}
}

func TestStorage_Stdio(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	s := storage.New(storage.WithStdio(strings.NewReader("in"), &out))

	r, err := s.NewReader(ctx, storage.Stdio)
	gt.NoError(t, err)
	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "in")
	gt.NoError(t, r.Close())

	w, err := s.NewWriter(ctx, storage.Stdio)
	gt.NoError(t, err)
	_, err = w.Write([]byte("out"))
	gt.NoError(t, err)
	gt.NoError(t, w.Close())
	gt.Equal(t, out.String(), "out")

	gt.NoError(t, s.Close())
}

func TestStorage_LocalFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.beancount")
	s := storage.New()

	w, err := s.NewWriter(ctx, path)
	gt.NoError(t, err)
	_, err = w.Write([]byte("2024-01-01 open Assets:Bank\n"))
	gt.NoError(t, err)
	gt.NoError(t, w.Close())

	r, err := s.NewReader(ctx, path)
	gt.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "2024-01-01 open Assets:Bank\n")

	_, err = s.NewReader(ctx, filepath.Join(t.TempDir(), "missing"))
	gt.Error(t, err)
}

func TestStorage_GCS(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET is not set")
	}

	ctx := context.Background()
	s := storage.New()
	defer s.Close()

	location := "gs://" + bucket + "/txcleanup-test/" + time.Now().Format("20060102150405") + ".beancount"
	w, err := s.NewWriter(ctx, location)
	gt.NoError(t, err)
	_, err = w.Write([]byte("; test\n"))
	gt.NoError(t, err)
	gt.NoError(t, w.Close())

	r, err := s.NewReader(ctx, location)
	gt.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "; test\n")
}
