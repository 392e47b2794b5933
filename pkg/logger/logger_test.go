package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog-service/pkg/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelAndFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")
	l := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", File: file, MaxSize: 1})
	defer l.Close()

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	l.Info("hello %s", "world")
	assert.FileExists(t, file)
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	l := NewLogger(config.LoggingConfig{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestWithFields_DoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := Discard()
	base.SetOutput(&buf)
	base.SetFormatter("json")

	child := base.WithComponent("auth").WithField("username", "alice")
	child.Warning("login failed for %s", "alice")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "auth", entry["component"])
	assert.Equal(t, "alice", entry["username"])
	assert.Equal(t, "login failed for alice", entry["msg"])
	assert.Empty(t, base.fields)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWriter_LogsLinesAndCloses(t *testing.T) {
	out := &syncBuffer{}
	base := Discard()
	base.SetOutput(out)
	base.SetFormatter("json")

	w := base.WithComponent("http").Writer()
	_, err := w.Write([]byte("http: TLS handshake error\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "TLS handshake error")
	}, time.Second, 10*time.Millisecond)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &entry))
	assert.Equal(t, "http", entry["component"])
	assert.Equal(t, "error", entry["level"])

	_, err = w.Write([]byte("late\n"))
	assert.Error(t, err, "a closed writer rejects further lines")
}
