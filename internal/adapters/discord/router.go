package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/descalante/interview-coach-bot/internal/app/sched"
	"github.com/descalante/interview-coach-bot/internal/app/service"
	"github.com/descalante/interview-coach-bot/internal/domain"
)

// Router es el único punto de despacho de eventos de Discord: slash
// commands, reacciones y mensajes. Traduce eventos a llamadas de los
// services y errores de usuario a avisos efímeros.
type Router struct {
	s       *discordgo.Session
	guildID string

	adminRoleIDs []string
	limiter      *userLimiter

	interview *service.InterviewService
	resume    *service.ResumeService
	coach     *service.CoachService
	games     *service.GamesService
	profile   *service.ProfileService
	runner    *sched.Runner
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	adminRoleIDs []string,
	interview *service.InterviewService,
	resume *service.ResumeService,
	coach *service.CoachService,
	games *service.GamesService,
	profile *service.ProfileService,
	runner *sched.Runner,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		adminRoleIDs: adminRoleIDs,
		limiter:      newUserLimiter(2 * time.Second),
		interview:    interview,
		resume:       resume,
		coach:        coach,
		games:        games,
		profile:      profile,
		runner:       runner,
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	// Slash commands
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		userID := interactionUserID(ic)
		log.Printf("slash: /%s by=%s guild=%s", data.Name, userID, ic.GuildID)

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in slash /%s: %v", data.Name, rec)
				ReplyEphemeral(s, ic, "⚠️ Ocurrió un error inesperado.")
			}
		}()

		if !r.limiter.Allow(userID) {
			_ = DeferEphemeral(s, ic)
			ReplyEphemeral(s, ic, "🐢 Tranquilo, esperá un par de segundos entre comandos.")
			return
		}

		_ = DeferEphemeral(s, ic)
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		switch data.Name {
		case "interview":
			r.handleInterview(ctx, s, ic, data, userID)
		case "pregunta":
			r.handlePregunta(ctx, s, ic, data)
		case "addpregunta":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			r.handleAddPregunta(ctx, s, ic, data)
		case "resume":
			msg, err := r.resume.Request(ctx, userID)
			if err != nil {
				msg = "⚠️ No pude arrancar la review: " + err.Error()
			}
			ReplyEphemeral(s, ic, msg)
		case "coach":
			r.handleCoach(ctx, s, ic, data)
		case "perfil":
			msg, err := r.profile.Describe(ctx, userID)
			if err != nil {
				msg = "⚠️ No pude leer tu perfil, probá en un rato."
			}
			ReplyEphemeral(s, ic, msg)
		case "games":
			r.handleGames(ctx, s, ic, data, userID)
		case "tasks":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			ReplyEphemeral(s, ic, formatTaskStats(r.runner))
		}
	})

	// Reacciones: menús de entrevista (en DM) y joins de convocatorias
	r.s.AddHandler(func(s *discordgo.Session, ev *discordgo.MessageReactionAdd) {
		if s.State.User != nil && ev.UserID == s.State.User.ID {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		r.interview.HandleReaction(ctx, ev.UserID, ev.MessageID, ev.Emoji.Name)
		r.games.HandleJoinReaction(ctx, ev.ChannelID, ev.MessageID, ev.UserID, ev.Emoji.Name)
	})

	// Mensajes: DMs van a juegos → resume → entrevista; mensajes de canal
	// solo les interesan a los juegos
	r.s.AddHandler(func(s *discordgo.Session, ev *discordgo.MessageCreate) {
		if ev.Author == nil || ev.Author.Bot {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		if ev.GuildID == "" {
			// DM
			if r.games.HandleDM(ctx, ev.Author.ID, ev.Content) {
				return
			}
			if r.resume.HandleDM(ctx, ev.Author.ID, ev.Content) {
				return
			}
			r.interview.HandleAnswer(ctx, ev.Author.ID, ev.Content)
			return
		}
		r.games.HandleChannelMessage(ctx, ev.ChannelID, ev.Author.ID, ev.Content)
	})
}

func (r *Router) handleInterview(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, userID string) {
	if len(data.Options) == 0 {
		ReplyEphemeral(s, ic, "Usa `/interview start`, `/interview stop` o `/interview active`.")
		return
	}
	switch data.Options[0].Name {
	case "start":
		msg, err := r.interview.Start(ctx, userID)
		if errors.Is(err, service.ErrAlreadyActive) {
			msg = "⚠️ Ya tenés una entrevista en curso. Terminala con `/interview stop` o seguí por DM."
		} else if err != nil {
			msg = "⚠️ No pude arrancar la entrevista: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	case "stop":
		msg, err := r.interview.Stop(ctx, userID)
		if errors.Is(err, service.ErrNoActiveSession) {
			msg = "ℹ️ No tenés ninguna entrevista en curso."
		} else if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	case "active":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		ReplyEphemeral(s, ic, formatActiveSessions(r.interview.Active()))
	}
}

func (r *Router) handlePregunta(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	var tipo, dificultad string
	for _, opt := range data.Options {
		switch opt.Name {
		case "tipo":
			tipo = opt.StringValue()
		case "dificultad":
			dificultad = opt.StringValue()
		}
	}
	msg, err := r.interview.RandomQuestion(ctx, domain.InterviewType(tipo), domain.Difficulty(dificultad))
	if errors.Is(err, service.ErrNoQuestions) {
		msg = "ℹ️ Todavía no hay preguntas para esa combinación."
	} else if err != nil {
		msg = "⚠️ No pude buscar la pregunta: " + err.Error()
	}
	ReplyEphemeral(s, ic, msg)
}

func (r *Router) handleAddPregunta(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	var tipo, dificultad, texto, temas string
	for _, opt := range data.Options {
		switch opt.Name {
		case "tipo":
			tipo = opt.StringValue()
		case "dificultad":
			dificultad = opt.StringValue()
		case "texto":
			texto = opt.StringValue()
		case "temas":
			temas = opt.StringValue()
		}
	}
	var topics []string
	for _, t := range strings.Split(temas, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	msg, err := r.interview.AddQuestion(ctx, domain.InterviewType(tipo), domain.Difficulty(dificultad), texto, topics)
	if err != nil {
		msg = "⚠️ No pude agregar la pregunta: " + err.Error()
	}
	ReplyEphemeral(s, ic, msg)
}

func (r *Router) handleCoach(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	var consulta string
	if len(data.Options) > 0 {
		consulta = data.Options[0].StringValue()
	}
	chunks, err := r.coach.Ask(ctx, consulta)
	if err != nil {
		ReplyEphemeral(s, ic, "⚠️ El coach no está disponible ahora, probá en un rato.")
		return
	}
	// el primer cacho responde la interacción; el resto va como followups
	ReplyEphemeral(s, ic, chunks[0])
	for _, extra := range chunks[1:] {
		if _, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{Content: extra}); err != nil {
			log.Printf("followup de coach: %v", err)
			return
		}
	}
}

func (r *Router) handleGames(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, userID string) {
	if len(data.Options) == 0 {
		ReplyEphemeral(s, ic, "Usa `/games list`, `/games invite` o `/games stop`.")
		return
	}
	switch data.Options[0].Name {
	case "list":
		var b strings.Builder
		b.WriteString("🎮 **Juegos disponibles**\n")
		for _, d := range r.games.ListGames() {
			fmt.Fprintf(&b, "• **%s** — %s (%d a %d jugadores)\n", d.Name, d.Description, d.MinPlayers, d.MaxPlayers)
		}
		ReplyEphemeral(s, ic, b.String())
	case "invite":
		kind := data.Options[0].Options[0].StringValue()
		if _, err := r.games.CreateInvite(ctx, ic.ChannelID, kind); err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude publicar la convocatoria: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "✅ Convocatoria publicada.")
	case "stop":
		msg, err := r.games.StopGame(ctx, ic.ChannelID, userID)
		if errors.Is(err, service.ErrNoActiveGame) {
			msg = "ℹ️ En este canal no hay ningún juego corriendo."
		} else if errors.Is(err, service.ErrNotParticipant) {
			msg = "⚠️ Solo un participante puede terminar el juego."
		} else if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}

// ---------- helpers ----------

// interactionUserID: en guild viene Member, en DM viene User.
func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

func formatActiveSessions(sessions []domain.Session) string {
	if len(sessions) == 0 {
		return "ℹ️ No hay entrevistas activas."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 **%d entrevista(s) activa(s)**\n", len(sessions))
	for _, sess := range sessions {
		fmt.Fprintf(&b, "• <@%s> — %s/%s, estado %s, repreguntas %d, desde %s\n",
			sess.UserID, sess.Type, sess.Difficulty, sess.Status, sess.FollowUpCount,
			sess.StartedAt.Format("15:04"))
	}
	return b.String()
}

func formatTaskStats(r *sched.Runner) string {
	names := r.TaskNames()
	if len(names) == 0 {
		return "ℹ️ No hay tareas programadas."
	}
	stats := r.TaskStats()
	var b strings.Builder
	b.WriteString("⚙️ **Tareas programadas**\n")
	for _, name := range names {
		st := stats[name]
		fmt.Fprintf(&b, "• `%s` — corridas %d, errores %d", name, st.Runs, st.Errors)
		if !st.LastSuccess.IsZero() {
			fmt.Fprintf(&b, ", último OK %s", st.LastSuccess.Format("02/01 15:04"))
		}
		if st.LastError.Msg != "" {
			fmt.Fprintf(&b, ", último error: %s", st.LastError.Msg)
		}
		b.WriteString("\n")
	}
	return b.String()
}
