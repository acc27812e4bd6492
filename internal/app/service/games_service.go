package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/descalante/interview-coach-bot/internal/app/games"
	"github.com/descalante/interview-coach-bot/internal/domain"
)

// Emoji para anotarse a una convocatoria.
const joinEmoji = "✋"

const (
	// Una invitación que quedó colgada (timer perdido) se barre a los 5 min.
	staleInviteAge = 5 * time.Minute
	// Un juego que nadie cerró se barre a las 2 horas.
	staleGameAge = 2 * time.Hour
	// Tras /games stop el canal queda un rato para leer los resultados.
	cleanupDelay = 5 * time.Minute
)

type inviteEntry struct {
	invite     domain.GameInvite
	descriptor games.Descriptor
	timer      *time.Timer
	graceTimer *time.Timer
}

type instanceEntry struct {
	inst         domain.GameInstance
	game         games.Game
	cleanupTimer *time.Timer
}

// GamesService maneja el ciclo de vida: convocatoria → join-gating →
// canal dedicado → juego corriendo → teardown. Las reglas de cada juego
// viven en el paquete games; acá solo orquestamos.
type GamesService struct {
	msgr Messenger
	reg  *games.Registry

	inviteTimeout time.Duration
	// Con gracia > 0, al llegar al mínimo se espera esa ventana por más
	// jugadores en vez de arrancar al instante.
	graceAfterMin time.Duration

	mu        sync.Mutex
	invites   map[string]*inviteEntry   // messageID → invitación
	instances map[string]*instanceEntry // instanceID → juego corriendo
	byChannel map[string]string         // channelID → instanceID
}

func NewGamesService(msgr Messenger, reg *games.Registry, inviteTimeout, graceAfterMin time.Duration) *GamesService {
	return &GamesService{
		msgr:          msgr,
		reg:           reg,
		inviteTimeout: inviteTimeout,
		graceAfterMin: graceAfterMin,
		invites:       make(map[string]*inviteEntry),
		instances:     make(map[string]*instanceEntry),
		byChannel:     make(map[string]string),
	}
}

// ListGames expone el catálogo para el comando /games list.
func (s *GamesService) ListGames() []games.Descriptor {
	return s.reg.All()
}

// ListKinds devuelve solo los kinds registrados (para la convocatoria
// automática).
func (s *GamesService) ListKinds() []string {
	all := s.reg.All()
	kinds := make([]string, len(all))
	for i, d := range all {
		kinds[i] = d.Kind
	}
	return kinds
}

// CreateInvite publica la convocatoria en el canal y agenda su expiración.
func (s *GamesService) CreateInvite(ctx context.Context, channelID, kind string) (string, error) {
	desc, ok := s.reg.Get(kind)
	if !ok {
		return "", fmt.Errorf("juego desconocido: %s", kind)
	}

	msg := fmt.Sprintf(
		"🎮 **%s** — %s\nReaccioná con %s para anotarte (mínimo %d, máximo %d).\nLa convocatoria cierra en %s.",
		desc.Name, desc.Description, joinEmoji, desc.MinPlayers, desc.MaxPlayers,
		s.inviteTimeout.Round(time.Second))
	messageID, err := s.msgr.SendChannelMessage(ctx, channelID, msg)
	if err != nil {
		return "", fmt.Errorf("publicar convocatoria: %w", err)
	}
	if err := s.msgr.React(ctx, channelID, messageID, []string{joinEmoji}); err != nil {
		log.Printf("[games] no pude auto-reaccionar la convocatoria %s: %v", messageID, err)
	}

	entry := &inviteEntry{
		invite: domain.GameInvite{
			MessageID: messageID,
			ChannelID: channelID,
			Kind:      kind,
			State:     domain.InviteOpen,
			CreatedAt: time.Now(),
		},
		descriptor: desc,
	}
	entry.timer = time.AfterFunc(s.inviteTimeout, func() { s.ExpireInvite(messageID) })

	s.mu.Lock()
	s.invites[messageID] = entry
	s.mu.Unlock()

	log.Printf("[games] convocatoria %s publicada (%s)", messageID, kind)
	return messageID, nil
}

// HandleJoinReaction procesa una reacción sobre un mensaje cualquiera.
// Si no es una convocatoria nuestra, no hace nada.
func (s *GamesService) HandleJoinReaction(ctx context.Context, channelID, messageID, userID, emoji string) {
	if emoji != joinEmoji {
		return
	}

	s.mu.Lock()
	entry, ok := s.invites[messageID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if entry.invite.State != domain.InviteOpen {
		// llegó tarde: el juego ya arrancó o la convocatoria cerró
		state := entry.invite.State
		s.mu.Unlock()
		if state == domain.InviteStarted {
			_, _ = s.msgr.SendChannelMessage(ctx, channelID,
				fmt.Sprintf("⚠️ <@%s>, ese juego ya arrancó. ¡Atento a la próxima convocatoria!", userID))
		}
		return
	}
	if entry.invite.HasPlayer(userID) {
		s.mu.Unlock()
		return
	}

	// Una convocatoria abierta nunca está llena: al llegar al máximo
	// arranca en el acto, así que los tardíos caen en el aviso de arriba.
	entry.invite.Players = append(entry.invite.Players, userID)
	count := len(entry.invite.Players)

	switch {
	case count >= entry.descriptor.MaxPlayers:
		// cupo completo: arranca ya
		s.beginStartLocked(entry)
		s.mu.Unlock()
		s.startGame(ctx, entry)
	case count >= entry.descriptor.MinPlayers:
		if s.graceAfterMin <= 0 {
			s.beginStartLocked(entry)
			s.mu.Unlock()
			s.startGame(ctx, entry)
			return
		}
		// llegamos al mínimo: ventana de gracia por si se suma alguien más
		if entry.graceTimer == nil {
			id := messageID
			entry.graceTimer = time.AfterFunc(s.graceAfterMin, func() { s.startFromGrace(id) })
		}
		s.mu.Unlock()
	default:
		s.mu.Unlock()
	}
}

// beginStartLocked marca la invitación como arrancada y apaga sus timers.
// Requiere s.mu tomado.
func (s *GamesService) beginStartLocked(entry *inviteEntry) {
	entry.invite.State = domain.InviteStarted
	if entry.timer != nil {
		entry.timer.Stop()
	}
	if entry.graceTimer != nil {
		entry.graceTimer.Stop()
	}
}

func (s *GamesService) startFromGrace(messageID string) {
	s.mu.Lock()
	entry, ok := s.invites[messageID]
	if !ok || entry.invite.State != domain.InviteOpen {
		s.mu.Unlock()
		return
	}
	s.beginStartLocked(entry)
	s.mu.Unlock()
	s.startGame(context.Background(), entry)
}

// ExpireInvite cierra una convocatoria vencida: arranca si juntó el mínimo,
// si no la cancela con aviso.
func (s *GamesService) ExpireInvite(messageID string) {
	ctx := context.Background()

	s.mu.Lock()
	entry, ok := s.invites[messageID]
	if !ok || entry.invite.State != domain.InviteOpen {
		s.mu.Unlock()
		return
	}
	if len(entry.invite.Players) >= entry.descriptor.MinPlayers {
		s.beginStartLocked(entry)
		s.mu.Unlock()
		s.startGame(ctx, entry)
		return
	}
	entry.invite.State = domain.InviteExpired
	if entry.graceTimer != nil {
		entry.graceTimer.Stop()
	}
	channelID := entry.invite.ChannelID
	name := entry.descriptor.Name
	s.mu.Unlock()

	// el mensaje vencido se borra para que nadie siga reaccionando
	if err := s.msgr.DeleteMessage(ctx, channelID, messageID); err != nil {
		log.Printf("[games] borrar convocatoria %s: %v", messageID, err)
	}
	_, _ = s.msgr.SendChannelMessage(ctx, channelID,
		fmt.Sprintf("ℹ️ La convocatoria de **%s** se cerró sin jugadores suficientes.", name))
	log.Printf("[games] convocatoria %s expirada sin quórum", messageID)
}

// startGame crea el canal dedicado y lanza la instancia. La invitación ya
// tiene que estar en estado Started (queda en el mapa para que los tardíos
// reciban aviso hasta el próximo barrido).
func (s *GamesService) startGame(ctx context.Context, entry *inviteEntry) {
	players := entry.invite.Players
	desc := entry.descriptor

	name := fmt.Sprintf("%s-%s", strings.ReplaceAll(desc.Kind, "_", "-"),
		time.Now().Format("20060102-1504"))
	channelID, err := s.msgr.CreateScopedChannel(ctx, name, players)
	if err != nil {
		s.cancelStart(ctx, entry, fmt.Errorf("crear canal: %w", err))
		return
	}

	inst := domain.GameInstance{
		ID:        uuid.NewString(),
		Kind:      desc.Kind,
		ChannelID: channelID,
		Players:   players,
		StartedAt: time.Now(),
		IsActive:  true,
	}
	game := desc.New(games.Deps{Msgr: s.msgr, ChannelID: channelID, Players: players})

	if err := game.Start(ctx); err != nil {
		// rollback: el canal recién creado no sirve sin juego adentro
		if derr := s.msgr.DeleteChannel(ctx, channelID); derr != nil {
			log.Printf("[games] rollback del canal %s falló: %v", channelID, derr)
		}
		s.cancelStart(ctx, entry, fmt.Errorf("arrancar %s: %w", desc.Kind, err))
		return
	}

	s.mu.Lock()
	s.instances[inst.ID] = &instanceEntry{inst: inst, game: game}
	s.byChannel[channelID] = inst.ID
	s.mu.Unlock()

	mentions := make([]string, len(players))
	for i, p := range players {
		mentions[i] = fmt.Sprintf("<@%s>", p)
	}
	_, _ = s.msgr.SendChannelMessage(ctx, entry.invite.ChannelID,
		fmt.Sprintf("✅ **%s** arrancó en <#%s> con %s.", desc.Name, channelID, strings.Join(mentions, ", ")))
	log.Printf("[games] instancia %s (%s) corriendo en canal %s", inst.ID, desc.Kind, channelID)
}

func (s *GamesService) cancelStart(ctx context.Context, entry *inviteEntry, cause error) {
	s.mu.Lock()
	entry.invite.State = domain.InviteCancelled
	channelID := entry.invite.ChannelID
	name := entry.descriptor.Name
	s.mu.Unlock()

	log.Printf("[games] no pude arrancar %s: %v", entry.descriptor.Kind, cause)
	_, _ = s.msgr.SendChannelMessage(ctx, channelID,
		fmt.Sprintf("⚠️ No pude arrancar **%s**, la convocatoria queda cancelada. Probá de nuevo en un rato.", name))
}

// StopGame lo invoca un participante con /games stop dentro del canal del
// juego. El canal se borra con demora para que puedan leer los resultados.
func (s *GamesService) StopGame(ctx context.Context, channelID, userID string) (string, error) {
	s.mu.Lock()
	id, ok := s.byChannel[channelID]
	if !ok {
		s.mu.Unlock()
		return "", ErrNoActiveGame
	}
	entry := s.instances[id]
	if !entry.inst.HasPlayer(userID) {
		s.mu.Unlock()
		return "", ErrNotParticipant
	}
	entry.inst.IsActive = false
	game := entry.game
	entry.cleanupTimer = time.AfterFunc(cleanupDelay, func() { s.teardown(id) })
	s.mu.Unlock()

	if err := game.Stop(ctx, false); err != nil {
		log.Printf("[games] stop del juego %s devolvió error: %v", id, err)
	}
	return fmt.Sprintf("🛑 Juego terminado. El canal se borra en %s.", cleanupDelay.Round(time.Minute)), nil
}

// teardown borra el canal y saca la instancia de los mapas.
func (s *GamesService) teardown(instanceID string) {
	s.mu.Lock()
	entry, ok := s.instances[instanceID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.instances, instanceID)
	delete(s.byChannel, entry.inst.ChannelID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.msgr.DeleteChannel(ctx, entry.inst.ChannelID); err != nil {
		log.Printf("[games] borrar canal %s: %v", entry.inst.ChannelID, err)
	}
	log.Printf("[games] instancia %s desarmada", instanceID)
}

// HandleChannelMessage rutea un mensaje de canal al juego que viva ahí.
// Devuelve false si el canal no es de ningún juego.
func (s *GamesService) HandleChannelMessage(ctx context.Context, channelID, userID, text string) bool {
	s.mu.Lock()
	id, ok := s.byChannel[channelID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	entry := s.instances[id]
	if !entry.inst.IsActive || !entry.inst.HasPlayer(userID) {
		s.mu.Unlock()
		return true // el canal es nuestro, pero el mensaje no juega
	}
	game := entry.game
	s.mu.Unlock()

	if err := game.OnPlayerInput(ctx, userID, text); err != nil {
		log.Printf("[games] input en %s: %v", channelID, err)
	}
	return true
}

// HandleDM le ofrece un DM a los juegos que esperan respuestas privadas
// (fase secreta de mirror match). Devuelve true si algún juego lo consumió.
func (s *GamesService) HandleDM(ctx context.Context, userID, text string) bool {
	s.mu.Lock()
	candidates := make([]games.DMAware, 0, 1)
	for _, entry := range s.instances {
		if !entry.inst.IsActive || !entry.inst.HasPlayer(userID) {
			continue
		}
		if dm, ok := entry.game.(games.DMAware); ok {
			candidates = append(candidates, dm)
		}
	}
	s.mu.Unlock()

	for _, dm := range candidates {
		handled, err := dm.OnDirectMessage(ctx, userID, text)
		if err != nil {
			log.Printf("[games] DM de %s: %v", userID, err)
		}
		if handled {
			return true
		}
	}
	return false
}

// Sweep barre invitaciones y juegos colgados. Lo corre un ticker en main,
// igual que el pruner de salas.
func (s *GamesService) Sweep(ctx context.Context, now time.Time) {
	type staleGame struct {
		id   string
		game games.Game
	}
	var expired []string
	var stale []staleGame

	s.mu.Lock()
	for id, entry := range s.invites {
		if entry.invite.State != domain.InviteOpen && now.Sub(entry.invite.CreatedAt) > staleInviteAge {
			// ya resuelta: solo la sacamos del mapa
			delete(s.invites, id)
			continue
		}
		if entry.invite.State == domain.InviteOpen && now.Sub(entry.invite.CreatedAt) > staleInviteAge {
			expired = append(expired, id)
		}
	}
	for id, entry := range s.instances {
		if now.Sub(entry.inst.StartedAt) > staleGameAge {
			stale = append(stale, staleGame{id: id, game: entry.game})
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		log.Printf("[games] barrido: convocatoria %s colgada, la expiro", id)
		s.ExpireInvite(id)
	}
	for _, g := range stale {
		log.Printf("[games] barrido: instancia %s pasada de %s, la cierro", g.id, staleGameAge)
		if err := g.game.Stop(ctx, true); err != nil {
			log.Printf("[games] stop forzado de %s: %v", g.id, err)
		}
		s.teardown(g.id)
	}
}

// ActiveGames devuelve cuántas instancias siguen corriendo.
func (s *GamesService) ActiveGames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}
