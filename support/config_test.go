package support

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults", func(t *testing.T) {
		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)

		assert.Equal(t, ":9080", cfg.Listen)
		assert.Equal(t, MemoryStore, cfg.Store)
		assert.Equal(t, "none", cfg.Tracing.Exporter)
	})

	t.Run("reads prefixed environment variables", func(t *testing.T) {
		t.Setenv("WEE_STORE", JetStreamStore)
		t.Setenv("WEE_NATS_STREAM", "counters")

		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)

		assert.Equal(t, JetStreamStore, cfg.Store)
		assert.Equal(t, "counters", cfg.NATS.Stream)
	})

	t.Run("honours the events table variable", func(t *testing.T) {
		t.Setenv("DYNAMODB_EVENTS_TABLE_NAME", "events")

		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, "events", cfg.DynamoDB.Table)
	})

	t.Run("reads config files", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "counter.yaml")
		require.NoError(t, os.WriteFile(file, []byte("listen: \":8080\"\nstore: esdb\n"), 0o600))

		cfg, err := Load(viper.New(), file)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Listen)
		assert.Equal(t, ESDBStore, cfg.Store)
	})

	t.Run("rejects unknown stores", func(t *testing.T) {
		t.Setenv("WEE_STORE", "postgres")

		_, err := Load(viper.New(), "")
		assert.Error(t, err)
	})

	t.Run("requires a honeycomb team", func(t *testing.T) {
		t.Setenv("WEE_TRACING_EXPORTER", "honeycomb")

		_, err := Load(viper.New(), "")
		assert.Error(t, err)
	})
}
