package log

import (
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevelAndFormat(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	cfg := Config{Format: "json", Level: "debug", File: "-"}
	require.NoError(t, cfg.Configure())
	require.Equal(t, log.DebugLevel, log.GetLevel())
	_, ok := log.StandardLogger().Formatter.(*log.JSONFormatter)
	require.True(t, ok)
}

func TestConfigureToFile(t *testing.T) {
	cfg := Config{Format: "text", Level: "info", File: filepath.Join(t.TempDir(), "strata.log")}
	require.NoError(t, cfg.Configure())
	require.NoError(t, (&Config{File: "-"}).Configure())
}

func TestConfigureInvalid(t *testing.T) {
	err := (&Config{Format: "xml"}).Configure()
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))

	err = (&Config{Level: "loud"}).Configure()
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
}
