package usage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

type fileContent struct {
	Rules []fileRule `toml:"rule"`
}

type fileRule struct {
	Description string `toml:"description"`
	LastUsed    string `toml:"last_used"`
}

// File stores usage in a TOML file next to the rules
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a store backed by path. The file is created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load implements interfaces.UsageStore. A missing file is an empty store.
func (s *File) Load(ctx context.Context) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *File) load(ctx context.Context) (map[string]time.Time, error) {
	dates := make(map[string]time.Time)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		ctxlog.From(ctx).Debug("usage file does not exist yet", "path", s.path)
		return dates, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read usage file", goerr.V("path", s.path))
	}

	var content fileContent
	if err := toml.Unmarshal(data, &content); err != nil {
		return nil, goerr.Wrap(err, "failed to decode usage file", goerr.V("path", s.path))
	}
	for _, r := range content.Rules {
		d, err := time.Parse(time.DateOnly, r.LastUsed)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid date in usage file",
				goerr.V("path", s.path),
				goerr.V("description", r.Description),
			)
		}
		dates[r.Description] = d
	}
	return dates, nil
}

// Save implements interfaces.UsageStore. The file is replaced atomically.
func (s *File) Save(ctx context.Context, report model.UsageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !merge(dates, report) {
		return nil
	}

	var content fileContent
	for desc, d := range dates {
		content.Rules = append(content.Rules, fileRule{Description: desc, LastUsed: d.Format(time.DateOnly)})
	}
	slices.SortFunc(content.Rules, func(a, b fileRule) int {
		return strings.Compare(a.Description, b.Description)
	})

	data, err := toml.Marshal(content)
	if err != nil {
		return goerr.Wrap(err, "failed to encode usage file")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".usage-*.toml")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary usage file", goerr.V("path", s.path))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write usage file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close usage file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return goerr.Wrap(err, "failed to replace usage file", goerr.V("path", s.path))
	}
	return nil
}
