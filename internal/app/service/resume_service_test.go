package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descalante/interview-coach-bot/internal/domain"
)

type fakeReviewer struct {
	summary domain.Summary
	calls   int
}

func (f *fakeReviewer) ResumeFeedback(context.Context, string) (domain.Summary, error) {
	f.calls++
	return f.summary, nil
}

func TestResumeRequestOpensDM(t *testing.T) {
	msgr := newFakeMessenger()
	s := NewResumeService(msgr, &fakeReviewer{})

	notice, err := s.Request(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, notice, "DMs")
	require.Len(t, msgr.dms["u1"], 1)

	// pedir de nuevo no duplica el pedido
	notice, err = s.Request(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, notice, "pendiente")
}

func TestResumeHandleDMWithoutRequestIsNotOurs(t *testing.T) {
	s := NewResumeService(newFakeMessenger(), &fakeReviewer{})

	assert.False(t, s.HandleDM(context.Background(), "u1", "hola bot"))
}

func TestResumeShortTextAsksAgain(t *testing.T) {
	msgr := newFakeMessenger()
	reviewer := &fakeReviewer{}
	s := NewResumeService(msgr, reviewer)

	_, err := s.Request(context.Background(), "u1")
	require.NoError(t, err)

	handled := s.HandleDM(context.Background(), "u1", "mi cv")
	assert.True(t, handled)
	assert.Equal(t, 0, reviewer.calls, "texto corto no llega al modelo")

	// el pedido sigue pendiente para el próximo mensaje
	s.mu.Lock()
	_, stillPending := s.pending["u1"]
	s.mu.Unlock()
	assert.True(t, stillPending)
}

func TestResumeReviewSendsFeedback(t *testing.T) {
	msgr := newFakeMessenger()
	reviewer := &fakeReviewer{summary: domain.Summary{
		OverallAssessment: "Sólido para roles semi-senior.",
		Strengths:         []string{"Buena sección de proyectos"},
		ImprovementAreas:  []string{"Cuantificar logros"},
	}}
	s := NewResumeService(msgr, reviewer)

	_, err := s.Request(context.Background(), "u1")
	require.NoError(t, err)

	cv := strings.Repeat("experiencia laboral y proyectos ", 10)
	assert.True(t, s.HandleDM(context.Background(), "u1", cv))

	// la review corre en goroutine; la llamamos directo para asertar
	s.review("u1", cv)

	last := msgr.dms["u1"][len(msgr.dms["u1"])-1]
	assert.Contains(t, last, "Feedback de tu CV")
	assert.Contains(t, last, "Cuantificar logros")
}

func TestResumeSweepDropsAbandoned(t *testing.T) {
	msgr := newFakeMessenger()
	s := NewResumeService(msgr, &fakeReviewer{})

	_, err := s.Request(context.Background(), "u1")
	require.NoError(t, err)

	s.Sweep(time.Now().Add(time.Hour), 30*time.Minute)

	assert.False(t, s.HandleDM(context.Background(), "u1", "llegué tarde"))
}
