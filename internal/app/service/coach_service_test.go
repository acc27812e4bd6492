package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoach struct{ reply string }

func (f *fakeCoach) CoachReply(context.Context, string) (string, error) { return f.reply, nil }

func TestCoachAskShortReplySingleChunk(t *testing.T) {
	s := NewCoachService(&fakeCoach{reply: "Practicá con ejemplos concretos."})

	chunks, err := s.Ask(context.Background(), "¿cómo me preparo?")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "Practicá")
}

func TestCoachAskEmptyQuestion(t *testing.T) {
	s := NewCoachService(&fakeCoach{})

	chunks, err := s.Ask(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "⚠️")
}

func TestChunkMessageSplitsOnNewlines(t *testing.T) {
	lines := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		lines = append(lines, strings.Repeat("x", 50))
	}
	text := strings.Join(lines, "\n")

	chunks := chunkMessage(text, 1900)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 1900)
		assert.False(t, strings.HasPrefix(c, "\n"))
	}
	// nada se pierde al partir
	assert.Equal(t, strings.ReplaceAll(text, "\n", ""), strings.ReplaceAll(strings.Join(chunks, ""), "\n", ""))
}

func TestChunkMessageNoNewlinesHardCut(t *testing.T) {
	text := strings.Repeat("a", 4000)

	chunks := chunkMessage(text, 1900)

	require.Len(t, chunks, 3)
	assert.Equal(t, 1900, len(chunks[0]))
}
