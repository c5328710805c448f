// Package meta loads configuration documents from any afs-addressable
// location (file, embed, mem, cloud storage), expanding ${env.KEY}
// references before decoding the YAML payload.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves and decodes documents relative to an optional base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service. baseURL may be empty, in which case every
// Load URL has to be absolute. The storage options are handed to every
// download, e.g. an *embed.FS for the embed scheme.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Load downloads the document at URL, expands ${env.KEY} references and
// decodes the result into target. JSON documents decode too, YAML being a
// superset.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	location := s.normalizeURL(URL)
	data, err := s.fs.DownloadWithURL(ctx, location, s.options...)
	if err != nil {
		return fmt.Errorf("failed to load %v: %w", location, err)
	}
	data = []byte(expandEnv(string(data)))
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", location, err)
	}
	return nil
}

func (s *Service) normalizeURL(URL string) string {
	if s.baseURL == "" || strings.Contains(URL, "://") || strings.HasPrefix(URL, "/") {
		return URL
	}
	return url.Join(s.baseURL, URL)
}
