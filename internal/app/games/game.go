package games

import (
	"context"
	"fmt"
	"sort"
)

// Messenger es lo mínimo que un juego necesita del transporte.
// Lo satisface el Messenger del paquete service.
type Messenger interface {
	SendChannelMessage(ctx context.Context, channelID, content string) (string, error)
	SendDM(ctx context.Context, userID, content string) (string, error)
}

// Game es el contrato común de todos los juegos. El manager solo orquesta
// lifecycle y join-gating; las reglas viven acá adentro.
type Game interface {
	Kind() string
	Name() string
	MinPlayers() int
	MaxPlayers() int
	Start(ctx context.Context) error
	Stop(ctx context.Context, forced bool) error
	OnPlayerInput(ctx context.Context, userID, text string) error
}

// DMAware lo implementan los juegos que además esperan respuestas por DM
// (p.ej. la fase secreta de mirror match). Devuelve true si consumió el
// mensaje.
type DMAware interface {
	OnDirectMessage(ctx context.Context, userID, text string) (bool, error)
}

// Deps es lo que el manager le inyecta a cada instancia nueva.
type Deps struct {
	Msgr      Messenger
	ChannelID string
	Players   []string
}

type Factory func(deps Deps) Game

// Descriptor describe un tipo de juego registrable.
type Descriptor struct {
	Kind        string
	Name        string
	Description string
	MinPlayers  int
	MaxPlayers  int
	New         Factory
}

// Registry mapea kind → factory. Registro plano en vez de jerarquía de
// clases: agregar un juego es agregar una entrada.
type Registry struct {
	byKind map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{byKind: make(map[string]Descriptor)}
}

func (r *Registry) Register(d Descriptor) error {
	if d.Kind == "" || d.New == nil {
		return fmt.Errorf("games: descriptor inválido (kind=%q)", d.Kind)
	}
	if _, dup := r.byKind[d.Kind]; dup {
		return fmt.Errorf("games: kind %q ya registrado", d.Kind)
	}
	r.byKind[d.Kind] = d
	return nil
}

func (r *Registry) Get(kind string) (Descriptor, bool) {
	d, ok := r.byKind[kind]
	return d, ok
}

func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.byKind))
	for _, d := range r.byKind {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// DefaultRegistry trae los tres juegos del bot.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(TruthDareDescriptor())
	_ = r.Register(WordGuessDescriptor())
	_ = r.Register(MirrorMatchDescriptor())
	return r
}
