package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descalante/interview-coach-bot/internal/infra/storage"
)

type fakeHistoryReader struct {
	records []storage.InterviewRecord
}

func (f *fakeHistoryReader) RecentByUser(_ context.Context, _ string, limit int) ([]storage.InterviewRecord, error) {
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func TestProfileDescribeEmpty(t *testing.T) {
	s := NewProfileService(newFakeProfileRepo(), &fakeHistoryReader{})

	out, err := s.Describe(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Puntos: 0")
	assert.Contains(t, out, "/interview start")
}

func TestProfileDescribeWithHistory(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.points["u1"] = 35
	reader := &fakeHistoryReader{records: []storage.InterviewRecord{
		{Type: "technical", Difficulty: "medium", MeetsBar: true, CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)},
		{Type: "behavioral", Difficulty: "easy", MeetsBar: false, CreatedAt: time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC)},
	}}
	s := NewProfileService(profiles, reader)

	out, err := s.Describe(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Puntos: 35")
	assert.Contains(t, out, "✅ technical/medium")
	assert.Contains(t, out, "❌ behavioral/easy")
	assert.Contains(t, out, "20/08/2026")
}
