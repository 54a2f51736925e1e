package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"cupheat/internal/log"
	"cupheat/internal/sims/coffee"
	"cupheat/pkg/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseSpacings(t *testing.T) {
	got, err := parseSpacings(" 0.02, 0.01,,0.005 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.02, 0.01, 0.005}, got)

	_, err = parseSpacings("0.01,abc")
	assert.Error(t, err)
	_, err = parseSpacings(" , ")
	assert.Error(t, err)
}

func TestPrintTableCountsFailures(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	log.Set(zap.New(obs))
	t.Cleanup(func() { log.Set(zap.NewNop()) })

	var res coffee.CoolingResult
	res.Points = 1125
	res.TimeStep = 0.1
	res.Initial[material.Coffee] = 363.15
	res.Final[material.Coffee] = 360.6

	var buf bytes.Buffer
	failed := printTable(&buf, []coffee.SweepRecord{
		{Spacing: 0.01, Steps: 300, Result: res},
		{Spacing: 0, Err: errors.New("invalid geometry")},
	})
	assert.Equal(t, 1, failed)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "1125")
	assert.Contains(t, lines[1], "360.600")
	assert.Contains(t, lines[1], "2.550")
	assert.Contains(t, lines[2], "error: invalid geometry")

	failures := logs.FilterMessage("spacing failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, 1, logs.FilterMessage("spacing done").Len())
}
