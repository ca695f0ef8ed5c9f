//go:build gocv
// +build gocv

package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"porosity-bot/config"
	"porosity-bot/internal/infrastructure/vision"
)

func TestNewAnnotator_GoCV(t *testing.T) {
	a, err := NewAnnotator(&config.Config{Detector: config.DetectorGoCV})
	require.NoError(t, err)
	require.IsType(t, &vision.GoCVAnnotator{}, a)
}
