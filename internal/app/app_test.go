package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/wagebook/internal/config"
	"github.com/mamadbah2/wagebook/internal/layout"
	"github.com/mamadbah2/wagebook/internal/repository/logos"
)

func TestRenderSettings(t *testing.T) {
	settings, err := RenderSettings(config.ReportsConfig{Timezone: "Asia/Kolkata"})
	require.NoError(t, err)
	assert.Equal(t, layout.A4(), settings.Geometry)
	assert.Equal(t, "Rs.", settings.Currency)
	assert.Equal(t, "Asia/Kolkata", settings.Location.String())

	path := filepath.Join(t.TempDir(), "geometry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rowHeight: 20\n"), 0o600))
	settings, err = RenderSettings(config.ReportsConfig{GeometryFile: path, CurrencySymbol: "$", Timezone: "UTC"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, settings.Geometry.RowHeight)
	assert.Equal(t, "$", settings.Currency)

	_, err = RenderSettings(config.ReportsConfig{Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestRenderSettingsRejectsPageShorterThanPreamble(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pageHeight: 250\n"), 0o600))

	_, err := RenderSettings(config.ReportsConfig{GeometryFile: path, Timezone: "UTC"})
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)
}

func TestLogoStoreDefaultsToDisk(t *testing.T) {
	store, err := LogoStore(context.Background(), config.LogoConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &logos.DiskStore{}, store)
}
