package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession(1, 10)
	require.Equal(t, StateMainMenu, s.State)
	require.Equal(t, int64(1), s.ID)
	require.Equal(t, int64(10), s.ChatID)
	require.Zero(t, s.History.Len())
}

func TestSession_ResetKeepsState(t *testing.T) {
	s := NewSession(1, 10)
	s.SetState(StateAwaitingImage)
	s.History.Append(1, 2)

	s.Reset()
	require.Equal(t, StateAwaitingImage, s.State)
	require.Zero(t, s.History.Len())
}
