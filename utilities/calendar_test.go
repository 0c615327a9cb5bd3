package utilities

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGoogleCalendarURL(t *testing.T) {
	start := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	raw := GenerateGoogleCalendarURL("Entregar relatório", "Versão final", start, end)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "TEMPLATE", query.Get("action"))
	assert.Equal(t, "Entregar relatório", query.Get("text"))
	assert.Equal(t, "Versão final", query.Get("details"))
	assert.Equal(t, "20260915T143000Z/20260915T153000Z", query.Get("dates"))
}

func TestGenerateGoogleCalendarURL_ConverteParaUTC(t *testing.T) {
	saoPaulo := time.FixedZone("America/Sao_Paulo", -3*60*60)
	start := time.Date(2026, 9, 15, 11, 0, 0, 0, saoPaulo)

	raw := GenerateGoogleCalendarURL("Reunião", "", start, start.Add(time.Hour))

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "20260915T140000Z/20260915T150000Z", parsed.Query().Get("dates"))
}
