package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/service/grabber"
)

const testBaseConfigContent = `
output_path: "/config/output"
default_video_quality: "720p"
default_audio_quality: "192kbps"
log_level: "info"
history_path: "history.db"
history_limit: 100
batch_limit: 20
batch_item_interval: "500ms"
metadata_cache_ttl: "10m"
thumbnail_timeout: "15s"
max_thumbnail_size: "5MB"
embed_metadata: false
use_backend_batch: false
`

func loadTestConfig(t *testing.T, content string) *config.Config {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	err := os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions)
	require.NoError(t, err)

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)

	return cfg
}

func newTestCommand() *cobra.Command {
	testCmd := &cobra.Command{Use: "test"}

	addDownloadFlags(testCmd.Flags())
	testCmd.Flags().String("format-id", "", "format id")
	testCmd.Flags().Float64("trim-start", 0, "trim start")
	testCmd.Flags().Float64("trim-end", 0, "trim end")

	return testCmd
}

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:nolintlint,tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides(t *testing.T) {
	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.False(t, cfg.EmbedMetadata)
				assert.False(t, cfg.UseBackendBatch)
			},
		},
		{
			name:  "output flag only - override output path",
			flags: map[string]string{"output": "/flag/output"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/flag/output", cfg.OutputPath)
				assert.False(t, cfg.EmbedMetadata)
			},
		},
		{
			name:  "embed-metadata flag only - override tagging",
			flags: map[string]string{"embed-metadata": "true"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.True(t, cfg.EmbedMetadata)
			},
		},
		{
			name: "all flags - override everything",
			flags: map[string]string{
				"output":         "/all/flags/output",
				"embed-metadata": "true",
				"backend-batch":  "true",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/all/flags/output", cfg.OutputPath)
				assert.True(t, cfg.EmbedMetadata)
				assert.True(t, cfg.UseBackendBatch)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, testBaseConfigContent)
			testCmd := newTestCommand()

			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue), "failed to set flag %s", flagName)
			}

			err := bindFlagsToConfig(testCmd.Flags(), cfg)
			require.NoError(t, err)

			tt.expectedConfig(t, cfg)

			// Derived settings are parsed by the same call.
			assert.Equal(t, int64(5_000_000), cfg.ParsedMaxThumbnailSize)
			assert.Equal(t, "500ms", cfg.ParsedBatchItemInterval.String())
		})
	}
}

// TestBindFlagsToConfig_InvalidConfig tests that invalid configuration values are rejected.
//
//nolint:nolintlint,tparallel // Cannot run in parallel due to Viper global state.
func TestBindFlagsToConfig_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad video quality",
			content: "default_video_quality: \"hd\"\n",
		},
		{
			name:    "bad log level",
			content: "log_level: \"loud\"\n",
		},
		{
			name:    "bad batch limit",
			content: "batch_limit: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, tt.content)

			err := bindFlagsToConfig(newTestCommand().Flags(), cfg)
			require.Error(t, err)
		})
	}
}

func TestParseDownloadFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     map[string]string
		expected  func(*testing.T, *grabber.DownloadOptions)
		wantError bool
	}{
		{
			name:  "defaults",
			flags: map[string]string{},
			expected: func(t *testing.T, v *grabber.DownloadOptions) {
				t.Helper()
				assert.Empty(t, v.Quality)
				assert.Equal(t, media.KindVideo, v.Kind)
				assert.Nil(t, v.Trim)
			},
		},
		{
			name:  "audio with quality",
			flags: map[string]string{"audio": "true", "quality": "320kbps"},
			expected: func(t *testing.T, v *grabber.DownloadOptions) {
				t.Helper()
				assert.Equal(t, "320kbps", v.Quality)
				assert.Equal(t, media.KindAudio, v.Kind)
			},
		},
		{
			name:  "format id and trim window",
			flags: map[string]string{"format-id": "137", "trim-start": "0", "trim-end": "12.5"},
			expected: func(t *testing.T, v *grabber.DownloadOptions) {
				t.Helper()
				assert.Equal(t, "137", v.FormatID)
				require.NotNil(t, v.Trim)
				require.NotNil(t, v.Trim.Start)
				require.NotNil(t, v.Trim.End)
				assert.InDelta(t, 0.0, *v.Trim.Start, 0.001)
				assert.InDelta(t, 12.5, *v.Trim.End, 0.001)
			},
		},
		{
			name:  "open-ended trim window",
			flags: map[string]string{"trim-start": strconv.Itoa(30)},
			expected: func(t *testing.T, v *grabber.DownloadOptions) {
				t.Helper()
				require.NotNil(t, v.Trim)
				assert.Nil(t, v.Trim.End)
			},
		},
		{
			name:      "inverted trim window",
			flags:     map[string]string{"trim-start": "20", "trim-end": "10"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			testCmd := newTestCommand()
			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue))
			}

			opts, err := parseDownloadFlags(testCmd.Flags())
			if tt.wantError {
				require.ErrorIs(t, err, media.ErrInvalidTrimWindow)

				return
			}

			require.NoError(t, err)
			tt.expected(t, opts)
		})
	}
}
