package logger_test

import (
	"bytes"
	"testing"

	"github.com/opengovern/og-kms-config/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerFormat(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	l, err := logger.New("config", "info", logger.WithOutput(&out))
	require.NoError(err)

	l.Info("loaded")
	require.Equal("name=config, level=info, msg=loaded\n", out.String())
}

func TestLoggerWithoutName(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	l, err := logger.New("", "debug", logger.WithOutput(&out))
	require.NoError(err)

	l.Warn("careful")
	require.Equal("level=warn, msg=careful\n", out.String())
}

func TestLoggerFiltersByLevel(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	l, err := logger.New("svc", "warn", logger.WithOutput(&out))
	require.NoError(err)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")
	l.Log("ignored", "trace")

	require.Equal("name=svc, level=warn, msg=shown\nname=svc, level=error, msg=shown too\n", out.String())

	out.Reset()
	require.NoError(l.SetLevel("debug"))
	l.Debug("now visible")
	require.Equal("name=svc, level=debug, msg=now visible\n", out.String())
}

func TestLoggerDefaultsToInfo(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	l, err := logger.New("svc", "", logger.WithOutput(&out))
	require.NoError(err)

	l.Debug("hidden")
	l.Info("shown")
	require.Equal("name=svc, level=info, msg=shown\n", out.String())
}

func TestLoggerUnknownLevel(t *testing.T) {
	require := require.New(t)

	_, err := logger.New("svc", "verbose")
	require.EqualError(err, "unknown error level verbose")

	l, err := logger.New("svc", "info")
	require.NoError(err)
	require.EqualError(l.SetLevel("loud"), "unknown error level loud")
}

func TestLoggerStructuredFields(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	l, err := logger.New("svc", "info", logger.WithOutput(&out))
	require.NoError(err)

	l.Zap().Info("decrypted", zap.String("key", "stripe"))
	require.Equal(`name=svc, level=info, msg=decrypted, {"key": "stripe"}`+"\n", out.String())
}
