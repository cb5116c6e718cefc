package util_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/web3-hd/internal/util"
)

func TestLogFromContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, &log.Logger, util.LogFromContext(context.Background()))
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	ctx := util.WithLogger(context.Background(), zerolog.New(&buf))

	ctx, id := util.WithRunID(ctx)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	util.LogFromContext(ctx).Info().Int("index", 3).Msg("balance")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, id, line["run_id"])
	assert.Equal(t, "balance", line["message"])
	assert.InDelta(t, 3, line["index"], 0)
}

func TestConfigureLogger(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	prevLogger := log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	})

	var buf bytes.Buffer
	require.NoError(t, util.ConfigureLogger(&buf, "warn", true))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	// a buffer is not a terminal, output stays JSON
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])

	assert.Error(t, util.ConfigureLogger(&buf, "loud", false))
}
