package matchctl

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	logger, err := newLogger(&AppConfig{})
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLoggerRejectsInvalidLevel(t *testing.T) {
	_, err := newLogger(&AppConfig{LogLevel: "not-a-level"})
	require.Error(t, err)
}
