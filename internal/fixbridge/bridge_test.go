package fixbridge

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcore/internal/engine"
)

func TestBridge_HandleRaw_AdmitsOrder(t *testing.T) {
	eng := engine.New()
	b := New(eng, Settings{})

	raw := buildMessage(map[string]string{
		"35": "D", "11": "55", "55": "AAPL", "54": "1", "44": "100", "38": "10",
	})
	ack, err := b.HandleRaw(raw)
	require.NoError(t, err)
	assert.Contains(t, ack, "clOrdID=55")
	assert.Contains(t, ack, "symbol=AAPL")
	assert.Equal(t, 1, eng.Count("AAPL"))
}

func TestBridge_HandleRaw_IgnoresNonOrderMessages(t *testing.T) {
	eng := engine.New()
	b := New(eng, Settings{})

	raw := buildMessage(map[string]string{"35": "0"})
	ack, err := b.HandleRaw(raw)
	assert.NoError(t, err)
	assert.Empty(t, ack)
	assert.Equal(t, 0, eng.Count("AAPL"))
}

func TestBridge_HandleRaw_BadClOrdID(t *testing.T) {
	eng := engine.New()
	b := New(eng, Settings{})

	raw := buildMessage(map[string]string{
		"35": "D", "11": "not-a-number", "55": "AAPL", "54": "1", "44": "100", "38": "10",
	})
	_, err := b.HandleRaw(raw)
	assert.Error(t, err)
}

func TestLoadSettings_ParsesKeyValueLines(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/session.cfg"
	content := "[DEFAULT]\nSocketAcceptAddress=127.0.0.1:9999\nSenderCompID=MATCHCORE\nTargetCompID=CLIENT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", settings.ListenAddress)
	assert.Equal(t, "MATCHCORE", settings.SenderCompID)
	assert.Equal(t, "CLIENT", settings.TargetCompID)
}
