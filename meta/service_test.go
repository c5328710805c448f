package meta

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
)

//go:embed testdata/*
var testFS embed.FS

type testConfig struct {
	Pool struct {
		Size          int  `yaml:"size"`
		DrainOnShrink bool `yaml:"drainOnShrink"`
	} `yaml:"pool"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Address string `yaml:"address"`
	} `yaml:"metrics"`
}

// TestService_Load resolves a relative URL against the base, expands env
// references and decodes the document.
func TestService_Load(t *testing.T) {
	t.Setenv("METRICS_ADDRESS", "127.0.0.1:9090")
	service := New(afs.New(), "embed:///testdata", &testFS)

	var config testConfig
	require.NoError(t, service.Load(context.Background(), "config.yaml", &config))
	assert.Equal(t, 4, config.Pool.Size)
	assert.True(t, config.Pool.DrainOnShrink)
	assert.True(t, config.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9090", config.Metrics.Address)
}

func TestService_LoadAbsoluteURL(t *testing.T) {
	service := New(afs.New(), "", &testFS)
	var config testConfig
	require.NoError(t, service.Load(context.Background(), "embed:///testdata/config.yaml", &config))
	assert.Equal(t, 4, config.Pool.Size)
}

func TestService_LoadMissing(t *testing.T) {
	service := New(afs.New(), "embed:///testdata", &testFS)
	var config testConfig
	err := service.Load(context.Background(), "absent.yaml", &config)
	assert.Error(t, err)
}
