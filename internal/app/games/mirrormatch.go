package games

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

const mirrorMatchKind = "mirror_match"

const mirrorRounds = 3

func MirrorMatchDescriptor() Descriptor {
	return Descriptor{
		Kind:        mirrorMatchKind,
		Name:        "Mirror Match",
		Description: "Un jugador marca tendencia por DM y el resto intenta adivinar qué eligió.",
		MinPlayers:  2,
		MaxPlayers:  6,
		New:         func(deps Deps) Game { return newMirrorMatch(deps) },
	}
}

// mirrorMatch tiene dos fases por ronda: el trendsetter elige en privado
// (por DM, via OnDirectMessage) y después los demás votan en el canal.
type mirrorMatch struct {
	msgr      Messenger
	channelID string
	players   []string

	mu          sync.Mutex
	active      bool
	round       int
	trendsetter string
	question    matchQuestion
	choice      string // opción elegida por el trendsetter, "" hasta que responda
	guessed     map[string]bool
	scores      map[string]int
	finished    bool
}

func newMirrorMatch(deps Deps) *mirrorMatch {
	return &mirrorMatch{
		msgr:      deps.Msgr,
		channelID: deps.ChannelID,
		players:   deps.Players,
		scores:    make(map[string]int),
	}
}

func (g *mirrorMatch) Kind() string    { return mirrorMatchKind }
func (g *mirrorMatch) Name() string    { return "Mirror Match" }
func (g *mirrorMatch) MinPlayers() int { return 2 }
func (g *mirrorMatch) MaxPlayers() int { return 6 }

func (g *mirrorMatch) Start(ctx context.Context) error {
	g.mu.Lock()
	g.active = true
	g.mu.Unlock()

	if _, err := g.msgr.SendChannelMessage(ctx, g.channelID,
		"🪞 **Mirror Match**\n"+
			"Cada ronda un jugador es el *trendsetter*: elige una opción en privado y el resto "+
			"adivina acá en el canal escribiendo la opción. Acierto = 1 punto.\n"+
			fmt.Sprintf("Jugamos %d rondas.", mirrorRounds)); err != nil {
		return err
	}
	return g.nextRound(ctx)
}

func (g *mirrorMatch) Stop(ctx context.Context, forced bool) error {
	g.mu.Lock()
	g.active = false
	g.mu.Unlock()
	if !forced {
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID, "🏆 Puntajes finales:\n"+g.scoreboard())
	}
	return nil
}

// OnDirectMessage captura la elección privada del trendsetter. Devuelve false
// cuando el DM no es para este juego (no hay elección pendiente del usuario).
func (g *mirrorMatch) OnDirectMessage(ctx context.Context, userID, text string) (bool, error) {
	g.mu.Lock()
	if !g.active || g.finished || userID != g.trendsetter || g.choice != "" {
		g.mu.Unlock()
		return false, nil
	}
	opt, ok := g.matchOption(text)
	if !ok {
		g.mu.Unlock()
		_, _ = g.msgr.SendDM(ctx, userID, "⚠️ Esa no es una de las opciones. Respondé con una de las listadas.")
		return true, nil
	}
	g.choice = opt
	g.guessed = make(map[string]bool)
	question := g.question
	g.mu.Unlock()

	if _, err := g.msgr.SendDM(ctx, userID, "✅ Anotado. ¡Que adivinen!"); err != nil {
		return true, err
	}
	_, err := g.msgr.SendChannelMessage(ctx, g.channelID,
		fmt.Sprintf("❓ **%s**\nOpciones: %s\nEl trendsetter ya eligió. ¡A adivinar!",
			question.question, strings.Join(question.options, " / ")))
	return true, err
}

func (g *mirrorMatch) OnPlayerInput(ctx context.Context, userID, text string) error {
	g.mu.Lock()
	if !g.active || g.finished || g.choice == "" || userID == g.trendsetter || g.guessed[userID] {
		g.mu.Unlock()
		return nil
	}
	opt, ok := g.matchOption(text)
	if !ok {
		g.mu.Unlock()
		return nil
	}
	g.guessed[userID] = true
	hit := opt == g.choice
	if hit {
		g.scores[userID]++
	}
	done := len(g.guessed) >= len(g.players)-1
	choice := g.choice
	g.mu.Unlock()

	if hit {
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID,
			fmt.Sprintf("🎯 ¡<@%s> leyó la mente! (+1)", userID))
	}
	if done {
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID,
			fmt.Sprintf("La elección era **%s**.", choice))
		return g.nextRound(ctx)
	}
	return nil
}

// matchOption compara sin mayúsculas y acepta también el índice (1, 2, ...).
func (g *mirrorMatch) matchOption(text string) (string, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	for i, opt := range g.question.options {
		if text == strings.ToLower(opt) || text == fmt.Sprintf("%d", i+1) {
			return opt, true
		}
	}
	return "", false
}

func (g *mirrorMatch) nextRound(ctx context.Context) error {
	g.mu.Lock()
	if !g.active {
		g.mu.Unlock()
		return nil
	}
	if g.round >= mirrorRounds {
		g.finished = true
		g.mu.Unlock()
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID,
			"🏁 ¡Fin del juego! Puntajes:\n"+g.scoreboard()+
				"\nUn participante puede cerrar el canal con `/games stop`.")
		return nil
	}
	g.round++
	g.trendsetter = g.players[(g.round-1)%len(g.players)]
	g.question = matchQuestions[rand.Intn(len(matchQuestions))]
	g.choice = ""
	g.guessed = nil
	round := g.round
	trendsetter := g.trendsetter
	question := g.question
	g.mu.Unlock()

	if _, err := g.msgr.SendChannelMessage(ctx, g.channelID,
		fmt.Sprintf("— **Ronda %d/%d** — el trendsetter es <@%s>, le mando la pregunta por DM.",
			round, mirrorRounds, trendsetter)); err != nil {
		return err
	}
	_, err := g.msgr.SendDM(ctx, trendsetter,
		fmt.Sprintf("🪞 Sos el trendsetter. **%s**\nOpciones: %s\nRespondeme acá con tu elección.",
			question.question, strings.Join(question.options, " / ")))
	return err
}

func (g *mirrorMatch) scoreboard() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.scores) == 0 {
		return "nadie sumó puntos"
	}
	var b strings.Builder
	for _, p := range g.players {
		fmt.Fprintf(&b, "<@%s> — %d\n", p, g.scores[p])
	}
	return b.String()
}
