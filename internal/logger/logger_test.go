package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	prev := Log.GetLevel()
	t.Cleanup(func() { Log.SetLevel(prev) })

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	require.NoError(t, SetLevel(""), "empty name keeps the current level")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	assert.Error(t, SetLevel("loud"))
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logrus.InfoLevel)
	l.WithFields(logrus.Fields{"component": "world"}).Info("tick")
	assert.Contains(t, buf.String(), "component=world")
	assert.Contains(t, buf.String(), "msg=tick")
}
