package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descalante/interview-coach-bot/internal/domain"
	"github.com/descalante/interview-coach-bot/internal/infra/storage"
)

type fakeQuestions struct {
	q        domain.Question
	err      error
	inserted []domain.Question
}

func (f *fakeQuestions) Random(_ context.Context, itype domain.InterviewType, diff domain.Difficulty) (domain.Question, error) {
	if f.err != nil {
		return domain.Question{}, f.err
	}
	q := f.q
	q.Type = itype
	q.Difficulty = diff
	return q, nil
}

func (f *fakeQuestions) Insert(_ context.Context, q domain.Question) error {
	f.inserted = append(f.inserted, q)
	return nil
}

type fakeHistory struct {
	mu       sync.Mutex
	records  []storage.InterviewRecord
	onInsert func()
}

func (f *fakeHistory) Insert(_ context.Context, rec storage.InterviewRecord) error {
	f.mu.Lock()
	f.records = append(f.records, rec)
	hook := f.onInsert
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

type fakeProfileRepo struct {
	mu     sync.Mutex
	points map[string]int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{points: make(map[string]int)}
}

func (f *fakeProfileRepo) Get(_ context.Context, id string) (storage.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return storage.UserProfile{DiscordUserID: id, Points: f.points[id]}, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p storage.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[p.DiscordUserID] = p.Points
	return nil
}

func (f *fakeProfileRepo) AddPoints(_ context.Context, id string, points int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[id] += points
	return nil
}

// fakeEvaluator guiona la conversación: followUps respuestas con repregunta
// y después resumen.
type fakeEvaluator struct {
	mu        sync.Mutex
	followUps int
	evalCalls int
	sumCalls  int
	evalErr   error
	summary   domain.Summary
}

func (f *fakeEvaluator) EvaluateAnswer(ctx context.Context, _, _ string) (bool, string, error) {
	if err := ctx.Err(); err != nil {
		return false, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.evalErr != nil {
		return false, "", f.evalErr
	}
	f.evalCalls++
	if f.evalCalls <= f.followUps {
		return true, "¿Podés profundizar un poco más?", nil
	}
	return false, "", nil
}

func (f *fakeEvaluator) Summarize(_ context.Context, _ domain.InterviewType, _ domain.Difficulty, _ []domain.QAEntry) (domain.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sumCalls++
	return f.summary, nil
}

type interviewFixture struct {
	svc      *InterviewService
	store    *SessionStore
	msgr     *fakeMessenger
	eval     *fakeEvaluator
	hist     *fakeHistory
	qrepo    *fakeQuestions
	profiles *fakeProfileRepo
}

func newInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()
	f := &interviewFixture{
		store:    NewSessionStore(),
		msgr:     newFakeMessenger(),
		eval:     &fakeEvaluator{summary: domain.Summary{OverallAssessment: "Meets the bar.", MeetsBar: true}},
		hist:     &fakeHistory{},
		qrepo:    &fakeQuestions{q: domain.Question{ID: 1, Text: "¿Qué es un deadlock?"}},
		profiles: newFakeProfileRepo(),
	}
	f.svc = NewInterviewService(f.store, f.qrepo, f.hist, f.profiles, f.eval, f.msgr)
	return f
}

// pasa los menús de tipo y dificultad reaccionando a los DMs pendientes
func (f *interviewFixture) selectTypeAndDifficulty(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()

	p, ok := f.store.Pending(userID)
	require.True(t, ok, "menú de tipo pendiente")
	f.svc.HandleReaction(ctx, userID, p.MessageID, "💻")

	p, ok = f.store.Pending(userID)
	require.True(t, ok, "menú de dificultad pendiente")
	f.svc.HandleReaction(ctx, userID, p.MessageID, "🟡")
}

func (f *interviewFixture) lastDM(userID string) string {
	f.msgr.mu.Lock()
	defer f.msgr.mu.Unlock()
	dms := f.msgr.dms[userID]
	if len(dms) == 0 {
		return ""
	}
	return dms[len(dms)-1]
}

func TestInterviewHappyPath(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	notice, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, notice, "DMs")

	_, err = f.svc.Start(ctx, "u1")
	assert.ErrorIs(t, err, ErrAlreadyActive)

	f.selectTypeAndDifficulty(t, "u1")

	sess, ok := f.store.Get("u1")
	require.True(t, ok)
	assert.Equal(t, domain.InterviewTechnical, sess.Type)
	assert.Equal(t, domain.DifficultyMedium, sess.Difficulty)
	assert.Equal(t, domain.StatusWaitingForAnswer, sess.Status)
	require.NotNil(t, sess.CurrentQuestion)
	assert.Contains(t, f.lastDM("u1"), "deadlock")

	// sin repreguntas: una respuesta y directo al resumen
	f.svc.processAnswer("u1", "es un abrazo mortal entre dos locks")

	assert.Equal(t, 0, f.store.Len(), "la sesión se destruye al completar")
	require.Len(t, f.hist.records, 1)
	rec := f.hist.records[0]
	assert.Equal(t, "u1", rec.DiscordUserID)
	assert.True(t, rec.MeetsBar)
	assert.Contains(t, string(rec.Transcript), "abrazo mortal")
	assert.Contains(t, f.lastDM("u1"), "Entrevista completa")
	assert.Equal(t, completionPoints+meetsBarBonus, f.profiles.points["u1"], "completar y pasar la vara suma ambos puntajes")
}

func TestInterviewFollowUpLoop(t *testing.T) {
	f := newInterviewFixture(t)
	f.eval.followUps = 2
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	f.selectTypeAndDifficulty(t, "u1")

	f.svc.processAnswer("u1", "respuesta uno")
	sess, ok := f.store.Get("u1")
	require.True(t, ok, "con repregunta pendiente la sesión sigue viva")
	assert.Equal(t, 1, sess.FollowUpCount)
	assert.Contains(t, f.lastDM("u1"), "Repregunta")

	f.svc.processAnswer("u1", "respuesta dos")
	f.svc.processAnswer("u1", "respuesta tres")

	assert.Equal(t, 0, f.store.Len())
	require.Len(t, f.hist.records, 1)
	require.NotEmpty(t, f.hist.records[0].Transcript)
	assert.Equal(t, 1, f.eval.sumCalls)
}

func TestInterviewFollowUpCapForcesSummary(t *testing.T) {
	f := newInterviewFixture(t)
	// el modelo pide repreguntas para siempre; el tope las corta
	f.eval.followUps = 1000
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	f.selectTypeAndDifficulty(t, "u1")

	for i := 0; i < domain.MaxFollowUps+1; i++ {
		f.svc.processAnswer("u1", "otra respuesta")
	}

	assert.Equal(t, 0, f.store.Len(), "tras el tope se resume aunque el modelo pida más")
	assert.Equal(t, 1, f.eval.sumCalls)
}

func TestInterviewBusyGuardRejectsSecondAnswer(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	f.selectTypeAndDifficulty(t, "u1")

	// tomamos el turno a mano para simular una evaluación en vuelo
	ok, busy := f.store.BeginProcessing("u1")
	require.True(t, ok)
	require.False(t, busy)

	f.svc.HandleAnswer(ctx, "u1", "segunda respuesta apurada")
	assert.Contains(t, f.lastDM("u1"), "procesando")
	assert.Equal(t, 0, f.eval.evalCalls, "la segunda respuesta no llega al modelo")
}

func TestInterviewStrayAndDuplicateReactions(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)

	p, _ := f.store.Pending("u1")

	// emoji que no es opción: el menú sigue pendiente
	f.svc.HandleReaction(ctx, "u1", p.MessageID, "🤡")
	_, stillPending := f.store.Pending("u1")
	assert.True(t, stillPending)

	// reacción sobre otro mensaje: no-op
	f.svc.HandleReaction(ctx, "u1", "mensaje-viejo", "💻")
	sess, _ := f.store.Get("u1")
	assert.Equal(t, domain.StatusSelectingType, sess.Status)

	// selección válida y después la entrega duplicada
	f.svc.HandleReaction(ctx, "u1", p.MessageID, "💻")
	dmCount := len(f.msgr.dms["u1"])
	f.svc.HandleReaction(ctx, "u1", p.MessageID, "💻")
	assert.Equal(t, dmCount, len(f.msgr.dms["u1"]), "la duplicada no repite el menú")
}

func TestInterviewNoQuestionsIsRecoverable(t *testing.T) {
	f := newInterviewFixture(t)
	f.qrepo.err = storage.ErrNotFound
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	f.selectTypeAndDifficulty(t, "u1")

	sess, ok := f.store.Get("u1")
	require.True(t, ok, "sin preguntas la sesión no se destruye")
	assert.Equal(t, domain.StatusSelectingDifficulty, sess.Status)

	// el banco se puebla y el usuario reintenta con otra dificultad
	f.qrepo.err = nil
	p, ok := f.store.Pending("u1")
	require.True(t, ok, "el menú de dificultad se reenvió")
	f.svc.HandleReaction(ctx, "u1", p.MessageID, "🟢")

	sess, _ = f.store.Get("u1")
	assert.Equal(t, domain.StatusWaitingForAnswer, sess.Status)
	assert.Equal(t, domain.DifficultyEasy, sess.Difficulty)
}

func TestInterviewTypeReactionAfterStopIsNoOp(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	p, ok := f.store.Pending("u1")
	require.True(t, ok)

	// la sesión muere con la reacción ya en vuelo
	require.True(t, f.store.Delete("u1"))
	f.store.SetPending(p)

	dmCount := len(f.msgr.dms["u1"])
	f.svc.HandleReaction(ctx, "u1", p.MessageID, "💻")

	assert.Equal(t, dmCount, len(f.msgr.dms["u1"]), "sin sesión no se manda el menú de dificultad")
	_, stillPending := f.store.Pending("u1")
	assert.False(t, stillPending, "no queda menú pendiente huérfano")
	assert.Equal(t, 0, f.store.Len())
}

func TestInterviewCompletedStatusSetBeforeDestroy(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	var statusSeen domain.SessionStatus
	f.hist.onInsert = func() {
		sess, ok := f.store.Get("u1")
		require.True(t, ok, "al persistir el transcript la sesión sigue viva")
		statusSeen = sess.Status
	}

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	f.selectTypeAndDifficulty(t, "u1")
	f.svc.processAnswer("u1", "mi respuesta")

	assert.Equal(t, domain.StatusCompleted, statusSeen)
	assert.Equal(t, 0, f.store.Len())
}

func TestInterviewTeardownNoticeSurvivesEvalTimeout(t *testing.T) {
	f := newInterviewFixture(t)
	// timeout ya vencido: la evaluación falla por contexto muerto
	f.svc.evalTimeout = -time.Second
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	f.selectTypeAndDifficulty(t, "u1")

	f.svc.processAnswer("u1", "mi respuesta")

	assert.Equal(t, 0, f.store.Len())
	assert.Contains(t, f.lastDM("u1"), "quedó cerrada", "el aviso de cierre sale con contexto propio")
}

func TestInterviewAddQuestion(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	msg, err := f.svc.AddQuestion(ctx, domain.InterviewTechnical, domain.DifficultyHard, "  ¿Qué es un B-tree?  ", []string{"estructuras"})
	require.NoError(t, err)
	assert.Contains(t, msg, "agregada")
	require.Len(t, f.qrepo.inserted, 1)
	assert.Equal(t, "¿Qué es un B-tree?", f.qrepo.inserted[0].Text)
	assert.Equal(t, domain.InterviewTechnical, f.qrepo.inserted[0].Type)

	_, err = f.svc.AddQuestion(ctx, domain.InterviewTechnical, domain.DifficultyHard, "   ", nil)
	assert.Error(t, err, "pregunta vacía se rechaza")
}

func TestInterviewEvaluatorErrorTearsDown(t *testing.T) {
	f := newInterviewFixture(t)
	f.eval.evalErr = errors.New("modelo caído")
	ctx := context.Background()

	_, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	f.selectTypeAndDifficulty(t, "u1")

	f.svc.processAnswer("u1", "mi respuesta")

	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.hist.records)
	assert.Contains(t, f.lastDM("u1"), "quedó cerrada")
}

func TestInterviewStop(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.Stop(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	msg, err := f.svc.Stop(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, msg, "terminada")
	assert.Equal(t, 0, f.store.Len())
}

func TestInterviewRandomQuestionNoBank(t *testing.T) {
	f := newInterviewFixture(t)
	f.qrepo.err = storage.ErrNotFound

	_, err := f.svc.RandomQuestion(context.Background(), domain.InterviewTechnical, domain.DifficultyEasy)
	assert.ErrorIs(t, err, ErrNoQuestions)
}
