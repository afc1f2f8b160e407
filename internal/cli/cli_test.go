package cli

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshinikasireddy/pubrag/internal/config"
)

func TestConnectPool_RequiresDatabaseURL(t *testing.T) {
	_, err := connectPool(context.Background(), &config.Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUBRAG_DATABASE_URL")
}

func TestApplyPortFlag_Unset(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg := &config.Config{Port: "9090"}
	applyPortFlag(cmd, cfg)

	assert.Equal(t, "9090", cfg.Port)
}

func TestApplyPortFlag_ExplicitDefaultOverridesEnv(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-p", "8080"}))

	// An explicit -p 8080 wins even though it equals the flag default.
	cfg := &config.Config{Port: "9090"}
	applyPortFlag(cmd, cfg)

	assert.Equal(t, "8080", cfg.Port)
}

func TestApplyPortFlag_CustomValue(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "3000"}))

	cfg := &config.Config{Port: "9090"}
	applyPortFlag(cmd, cfg)

	assert.Equal(t, "3000", cfg.Port)
}

func TestPreview_TruncatesOnRuneBoundary(t *testing.T) {
	out := preview(strings.Repeat("漢", 250), 200)

	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("漢", 200)+"...", out)
}

func TestPreview_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "one line two", preview("one line\ntwo", 200))
}
