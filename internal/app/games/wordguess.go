package games

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
)

const wordGuessKind = "word_guess"

const wordGuessMaxRounds = 5

// Puntaje según cuántas pistas hicieron falta; skip resta.
const (
	scoreFirstTry  = 3
	scoreSecondTry = 2
	scoreThirdTry  = 1
	skipPenalty    = -1
)

func WordGuessDescriptor() Descriptor {
	return Descriptor{
		Kind:        wordGuessKind,
		Name:        "Adivina la Palabra",
		Description: "Adiviná la palabra a partir de pistas que se van soltando.",
		MinPlayers:  2,
		MaxPlayers:  8,
		New:         func(deps Deps) Game { return newWordGuess(deps) },
	}
}

type wordGuess struct {
	msgr      Messenger
	channelID string
	players   []string

	mu       sync.Mutex
	active   bool
	round    int
	current  word
	hintIdx  int // cuántas pistas se mostraron (1..3)
	scores   map[string]int
	finished bool
}

func newWordGuess(deps Deps) *wordGuess {
	return &wordGuess{
		msgr:      deps.Msgr,
		channelID: deps.ChannelID,
		players:   deps.Players,
		scores:    make(map[string]int),
	}
}

func (g *wordGuess) Kind() string    { return wordGuessKind }
func (g *wordGuess) Name() string    { return "Adivina la Palabra" }
func (g *wordGuess) MinPlayers() int { return 2 }
func (g *wordGuess) MaxPlayers() int { return 8 }

func (g *wordGuess) Start(ctx context.Context) error {
	g.mu.Lock()
	g.active = true
	g.mu.Unlock()

	if _, err := g.msgr.SendChannelMessage(ctx, g.channelID,
		"🔤 **¡Adivina la Palabra!**\n"+
			"Reglas: doy una pista, ustedes tiran intentos. Si nadie acierta, suelto otra pista (máximo 3).\n"+
			"Comandos: `/skip` saltea la palabra (resta un punto), `/score` muestra el tablero.\n"+
			fmt.Sprintf("Jugamos %d rondas. ¡Arrancamos!", wordGuessMaxRounds)); err != nil {
		return err
	}
	return g.nextRound(ctx)
}

func (g *wordGuess) Stop(ctx context.Context, forced bool) error {
	g.mu.Lock()
	g.active = false
	g.mu.Unlock()
	if !forced {
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID, "🏆 Tablero final:\n"+g.scoreboard())
	}
	return nil
}

func (g *wordGuess) OnPlayerInput(ctx context.Context, userID, text string) error {
	text = strings.TrimSpace(text)

	switch strings.ToLower(text) {
	case "/score":
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID, "📊 Puntajes:\n"+g.scoreboard())
		return nil
	case "/skip":
		return g.skip(ctx, userID)
	}

	g.mu.Lock()
	if !g.active || g.finished {
		g.mu.Unlock()
		return nil
	}
	guess := strings.ToLower(text)
	answer := strings.ToLower(g.current.answer)
	if guess != answer {
		// intento fallido: escalamos pista si quedan
		if g.hintIdx < len(g.current.hints) {
			hint := g.current.hints[g.hintIdx]
			g.hintIdx++
			g.mu.Unlock()
			_, _ = g.msgr.SendChannelMessage(ctx, g.channelID, "💡 Otra pista: "+hint)
			return nil
		}
		g.mu.Unlock()
		return nil
	}

	points := scoreThirdTry
	switch g.hintIdx {
	case 1:
		points = scoreFirstTry
	case 2:
		points = scoreSecondTry
	}
	g.scores[userID] += points
	g.mu.Unlock()

	_, _ = g.msgr.SendChannelMessage(ctx, g.channelID,
		fmt.Sprintf("✅ ¡<@%s> acertó! Era **%s** (+%d puntos).", userID, answer, points))
	return g.nextRound(ctx)
}

func (g *wordGuess) skip(ctx context.Context, userID string) error {
	g.mu.Lock()
	if !g.active || g.finished {
		g.mu.Unlock()
		return nil
	}
	g.scores[userID] += skipPenalty
	answer := g.current.answer
	g.mu.Unlock()

	_, _ = g.msgr.SendChannelMessage(ctx, g.channelID,
		fmt.Sprintf("⏭️ <@%s> salteó la palabra (era **%s**, -1 punto).", userID, answer))
	return g.nextRound(ctx)
}

func (g *wordGuess) nextRound(ctx context.Context) error {
	g.mu.Lock()
	if !g.active {
		g.mu.Unlock()
		return nil
	}
	if g.round >= wordGuessMaxRounds {
		g.finished = true
		g.mu.Unlock()
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID,
			"🏁 ¡Se acabaron las rondas! Tablero final:\n"+g.scoreboard()+
				"\nUn participante puede cerrar el canal con `/games stop`.")
		return nil
	}
	g.round++
	g.current = words[rand.Intn(len(words))]
	g.hintIdx = 1
	round := g.round
	hint := g.current.hints[0]
	g.mu.Unlock()

	_, err := g.msgr.SendChannelMessage(ctx, g.channelID,
		fmt.Sprintf("— **Ronda %d/%d** —\n💡 Pista: %s", round, wordGuessMaxRounds, hint))
	return err
}

func (g *wordGuess) scoreboard() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.scores) == 0 {
		return "todavía no hay puntos"
	}
	type entry struct {
		user   string
		points int
	}
	entries := make([]entry, 0, len(g.scores))
	for u, p := range g.scores {
		entries = append(entries, entry{u, p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].points > entries[j].points })

	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d) <@%s> — %d\n", i+1, e.user, e.points)
	}
	return b.String()
}
