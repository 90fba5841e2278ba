package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvInt(t *testing.T) {
	t.Setenv("ITINERA_API_RATE", "")
	assert.Equal(t, 60, envInt("ITINERA_API_RATE", 60))

	t.Setenv("ITINERA_API_RATE", "0")
	assert.Equal(t, 0, envInt("ITINERA_API_RATE", 60))

	t.Setenv("ITINERA_API_RATE", "lots")
	assert.Equal(t, 60, envInt("ITINERA_API_RATE", 60))

	t.Setenv("ITINERA_API_RATE", "-5")
	assert.Equal(t, 60, envInt("ITINERA_API_RATE", 60))
}

func TestEnvOr(t *testing.T) {
	t.Setenv("ITINERA_SERVE_ADDR", "  ")
	assert.Equal(t, ":8080", envOr("ITINERA_SERVE_ADDR", ":8080"))

	t.Setenv("ITINERA_SERVE_ADDR", "127.0.0.1:9000")
	assert.Equal(t, "127.0.0.1:9000", envOr("ITINERA_SERVE_ADDR", ":8080"))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf, "").Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, "debug").Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")

	buf.Reset()
	newLogger(&buf, "nonsense").Warn("fallback")
	assert.Contains(t, buf.String(), "level=WARN")
}
