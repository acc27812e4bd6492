package games

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

const truthDareKind = "truth_dare"

func TruthDareDescriptor() Descriptor {
	return Descriptor{
		Kind:        truthDareKind,
		Name:        "Verdad o Reto",
		Description: "El clásico: te toca y elegís `verdad` o `reto`.",
		MinPlayers:  2,
		MaxPlayers:  10,
		New:         func(deps Deps) Game { return newTruthDare(deps) },
	}
}

type truthDare struct {
	msgr      Messenger
	channelID string
	players   []string

	mu      sync.Mutex
	current string // jugador en turno
	active  bool
}

func newTruthDare(deps Deps) *truthDare {
	return &truthDare{msgr: deps.Msgr, channelID: deps.ChannelID, players: deps.Players}
}

func (g *truthDare) Kind() string    { return truthDareKind }
func (g *truthDare) Name() string    { return "Verdad o Reto" }
func (g *truthDare) MinPlayers() int { return 2 }
func (g *truthDare) MaxPlayers() int { return 10 }

func (g *truthDare) Start(ctx context.Context) error {
	g.mu.Lock()
	g.active = true
	g.mu.Unlock()

	if _, err := g.msgr.SendChannelMessage(ctx, g.channelID,
		"🎲 **¡Verdad o Reto!** Cuando te toque, escribí `verdad` o `reto`."); err != nil {
		return err
	}
	return g.nextTurn(ctx)
}

func (g *truthDare) Stop(ctx context.Context, forced bool) error {
	g.mu.Lock()
	g.active = false
	g.mu.Unlock()
	if !forced {
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID, "👋 ¡Gracias por jugar Verdad o Reto!")
	}
	return nil
}

func (g *truthDare) OnPlayerInput(ctx context.Context, userID, text string) error {
	g.mu.Lock()
	if !g.active || userID != g.current {
		g.mu.Unlock()
		return nil // no es su turno: lo dejamos pasar
	}
	choice := strings.ToLower(strings.TrimSpace(text))
	g.mu.Unlock()

	switch choice {
	case "verdad", "truth":
		q := truths[rand.Intn(len(truths))]
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID, "🗣️ Verdad para <@"+userID+">: "+q)
	case "reto", "dare":
		d := dares[rand.Intn(len(dares))]
		_, _ = g.msgr.SendChannelMessage(ctx, g.channelID, "🔥 Reto para <@"+userID+">: "+d)
	default:
		return nil // otra charla en el canal, no es jugada
	}
	return g.nextTurn(ctx)
}

func (g *truthDare) nextTurn(ctx context.Context) error {
	g.mu.Lock()
	if !g.active {
		g.mu.Unlock()
		return nil
	}
	g.current = g.players[rand.Intn(len(g.players))]
	current := g.current
	g.mu.Unlock()

	_, err := g.msgr.SendChannelMessage(ctx, g.channelID,
		"👉 Turno de <@"+current+">. ¿`verdad` o `reto`?")
	return err
}
