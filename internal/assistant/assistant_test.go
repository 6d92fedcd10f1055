package assistant

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/assistant/speech"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.MemoryFile = filepath.Join(t.TempDir(), "memories.json")
	return cfg
}

func TestNew_Offline(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)

	sess := session.New("alice", "")
	res := a.Orchestrator.HandleTurn(context.Background(), sess, commands.ChannelText, "/remember income=5000")
	assert.True(t, res.Handled)
	assert.Equal(t, map[string]string{"income": "5000"}, a.Memory.GetAll("alice"))

	res = a.Orchestrator.HandleTurn(context.Background(), sess, commands.ChannelText, "What is an ETF?")
	assert.True(t, res.Failed)
	assert.Equal(t, session.MsgUnavailable, res.Reply)

	res = a.Orchestrator.HandleTurn(context.Background(), sess, commands.ChannelVoice, "export")
	assert.True(t, res.Handled)
	assert.Contains(t, res.Reply, "not configured")

	_, err = a.Orchestrator.VoiceTurn(context.Background(), sess, []byte("wav"))
	assert.Error(t, err)
}

func TestNew_CorruptMemoryFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.MemoryFile, []byte("{broken"), 0o600))

	_, err := New(context.Background(), cfg, logging.Nop())
	assert.ErrorIs(t, err, common.ErrCorruptState)
}

func TestNew_UnsupportedSpeechLanguage(t *testing.T) {
	cfg := testConfig(t)
	cfg.SpeechLanguage = "xx"

	_, err := New(context.Background(), cfg, logging.Nop())
	assert.ErrorIs(t, err, speech.ErrUnsupportedLanguage)
}
