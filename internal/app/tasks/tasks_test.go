package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descalante/interview-coach-bot/internal/domain"
	"github.com/descalante/interview-coach-bot/internal/infra/storage"
)

type fakeProfiles struct {
	profiles map[string]storage.UserProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[string]storage.UserProfile)}
}

func (f *fakeProfiles) Get(_ context.Context, id string) (storage.UserProfile, error) {
	return f.profiles[id], nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p storage.UserProfile) error {
	f.profiles[p.DiscordUserID] = p
	return nil
}

func TestCreditCheckInFirstTime(t *testing.T) {
	profiles := newFakeProfiles()

	require.NoError(t, creditCheckIn(context.Background(), profiles, "u1"))

	p := profiles.profiles["u1"]
	assert.Equal(t, checkInPoints, p.Points)
	assert.Equal(t, 1, p.Streak)
	require.NotNil(t, p.LastCheckIn)
}

func TestCreditCheckInSameDayIsNoop(t *testing.T) {
	profiles := newFakeProfiles()
	require.NoError(t, creditCheckIn(context.Background(), profiles, "u1"))

	require.NoError(t, creditCheckIn(context.Background(), profiles, "u1"))

	p := profiles.profiles["u1"]
	assert.Equal(t, checkInPoints, p.Points, "el mismo día no duplica puntos")
	assert.Equal(t, 1, p.Streak)
}

func TestCreditCheckInConsecutiveDayExtendsStreak(t *testing.T) {
	profiles := newFakeProfiles()
	yesterday := time.Now().Truncate(24 * time.Hour).Add(-24 * time.Hour)
	profiles.profiles["u1"] = storage.UserProfile{
		DiscordUserID: "u1", Points: 10, Streak: 3, LastCheckIn: &yesterday,
	}

	require.NoError(t, creditCheckIn(context.Background(), profiles, "u1"))

	p := profiles.profiles["u1"]
	assert.Equal(t, 4, p.Streak)
	assert.Equal(t, 10+checkInPoints, p.Points)
}

func TestCreditCheckInGapResetsStreak(t *testing.T) {
	profiles := newFakeProfiles()
	lastWeek := time.Now().Truncate(24 * time.Hour).Add(-7 * 24 * time.Hour)
	profiles.profiles["u1"] = storage.UserProfile{
		DiscordUserID: "u1", Points: 50, Streak: 9, LastCheckIn: &lastWeek,
	}

	require.NoError(t, creditCheckIn(context.Background(), profiles, "u1"))

	p := profiles.profiles["u1"]
	assert.Equal(t, 1, p.Streak, "día salteado reinicia la racha")
	assert.Equal(t, 50+checkInPoints, p.Points)
}

type fakeTaskMessenger struct {
	dms      map[string][]string
	channels map[string][]string
	dmErr    error
}

func newFakeTaskMessenger() *fakeTaskMessenger {
	return &fakeTaskMessenger{dms: make(map[string][]string), channels: make(map[string][]string)}
}

func (f *fakeTaskMessenger) SendDM(_ context.Context, userID, content string) (string, error) {
	if f.dmErr != nil {
		return "", f.dmErr
	}
	f.dms[userID] = append(f.dms[userID], content)
	return "dm", nil
}

func (f *fakeTaskMessenger) SendChannelMessage(_ context.Context, channelID, content string) (string, error) {
	f.channels[channelID] = append(f.channels[channelID], content)
	return "msg", nil
}

type fakeTips struct{ tip string }

func (f *fakeTips) DailyTip(context.Context) (string, error) { return f.tip, nil }

func TestDailyTipFansOutToChannels(t *testing.T) {
	msgr := newFakeTaskMessenger()
	task := DailyTip(&fakeTips{tip: "Respirá antes de contestar."}, msgr, []string{"c1", "c2"})

	require.NoError(t, task.Run(context.Background()))

	assert.Len(t, msgr.channels["c1"], 1)
	assert.Len(t, msgr.channels["c2"], 1)
	assert.Contains(t, msgr.channels["c1"][0], "Tip del día")
}

type fakeTaskQuestions struct{ err error }

func (f *fakeTaskQuestions) Random(_ context.Context, _ domain.InterviewType, _ domain.Difficulty) (domain.Question, error) {
	if f.err != nil {
		return domain.Question{}, f.err
	}
	return domain.Question{Text: "¿Qué es un índice?"}, nil
}

func TestCheckInSendsQuestionAndCredits(t *testing.T) {
	msgr := newFakeTaskMessenger()
	profiles := newFakeProfiles()
	task := CheckIn(&fakeTaskQuestions{}, profiles, msgr, []string{"u1", "u2"})

	require.NoError(t, task.Run(context.Background()))

	assert.Len(t, msgr.dms["u1"], 1)
	assert.Len(t, msgr.dms["u2"], 1)
	assert.Equal(t, checkInPoints, profiles.profiles["u1"].Points)
}

func TestCheckInEmptyBankSkipsUser(t *testing.T) {
	msgr := newFakeTaskMessenger()
	profiles := newFakeProfiles()
	task := CheckIn(&fakeTaskQuestions{err: storage.ErrNotFound}, profiles, msgr, []string{"u1"})

	require.NoError(t, task.Run(context.Background()), "banco vacío no es error de la tarea")
	assert.Empty(t, msgr.dms["u1"])
}

func TestCheckInDMFailureDoesNotCredit(t *testing.T) {
	msgr := newFakeTaskMessenger()
	msgr.dmErr = errors.New("DMs cerrados")
	profiles := newFakeProfiles()
	task := CheckIn(&fakeTaskQuestions{}, profiles, msgr, []string{"u1"})

	require.NoError(t, task.Run(context.Background()))
	assert.Zero(t, profiles.profiles["u1"].Points)
}

type fakeInviter struct {
	kinds   []string
	created []string
}

func (f *fakeInviter) CreateInvite(_ context.Context, _, kind string) (string, error) {
	f.created = append(f.created, kind)
	return "msg", nil
}

func (f *fakeInviter) ListKinds() []string { return f.kinds }

func TestGameInvitesPicksRegisteredKind(t *testing.T) {
	inv := &fakeInviter{kinds: []string{"truth_dare", "word_guess"}}
	task := GameInvites(inv, "games-channel")

	require.NoError(t, task.Run(context.Background()))

	require.Len(t, inv.created, 1)
	assert.Contains(t, inv.kinds, inv.created[0])
}

func TestGameInvitesNoChannelIsNoop(t *testing.T) {
	inv := &fakeInviter{kinds: []string{"truth_dare"}}
	task := GameInvites(inv, "")

	require.NoError(t, task.Run(context.Background()))
	assert.Empty(t, inv.created)
}
