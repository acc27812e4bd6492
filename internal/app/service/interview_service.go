package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/descalante/interview-coach-bot/internal/domain"
	"github.com/descalante/interview-coach-bot/internal/infra/storage"
)

// Emojis de los menús de selección por reacción.
var (
	typeEmojis = map[string]domain.InterviewType{
		"💻": domain.InterviewTechnical,
		"👥": domain.InterviewBehavioral,
		"📊": domain.InterviewSystemDesign,
	}
	difficultyEmojis = map[string]domain.Difficulty{
		"🟢": domain.DifficultyEasy,
		"🟡": domain.DifficultyMedium,
		"🔴": domain.DifficultyHard,
	}
	typeEmojiOrder       = []string{"💻", "👥", "📊"}
	difficultyEmojiOrder = []string{"🟢", "🟡", "🔴"}
)

// InterviewService maneja el ciclo completo de una entrevista simulada:
// selección de tipo y dificultad por reacciones en DM, pregunta, respuesta
// libre, evaluación por LLM con repreguntas acotadas, y resumen final.
// Puntos por completar una entrevista; el bonus es por pasar la vara.
const (
	completionPoints = 10
	meetsBarBonus    = 10
)

type InterviewService struct {
	store     *SessionStore
	questions QuestionRepo
	history   HistoryRepo
	profiles  ProfileRepo
	eval      Evaluator
	msgr      Messenger

	evalTimeout time.Duration
}

func NewInterviewService(store *SessionStore, questions QuestionRepo, history HistoryRepo, profiles ProfileRepo, eval Evaluator, msgr Messenger) *InterviewService {
	return &InterviewService{
		store:       store,
		questions:   questions,
		history:     history,
		profiles:    profiles,
		eval:        eval,
		msgr:        msgr,
		evalTimeout: 2 * time.Minute,
	}
}

// Start abre una sesión y manda el menú de tipo por DM. El string que
// devuelve es el aviso para el canal donde se invocó el comando.
func (s *InterviewService) Start(ctx context.Context, userID string) (string, error) {
	if err := s.store.Create(userID); err != nil {
		return "", err
	}

	if _, err := s.msgr.SendDM(ctx, userID, "👋 ¡Bienvenido al coach de entrevistas! Arrancamos tu sesión..."); err != nil {
		// sin DMs no hay entrevista; no dejamos sesión zombie
		s.store.Delete(userID)
		return "⚠️ No pude mandarte DM. Habilitá los mensajes directos del server y probá de nuevo.", nil
	}

	if err := s.sendTypeMenu(ctx, userID); err != nil {
		s.store.Delete(userID)
		return "", fmt.Errorf("menú de tipo: %w", err)
	}
	return "📬 Revisá tus DMs para empezar la entrevista.", nil
}

// Stop termina la sesión a pedido del usuario.
func (s *InterviewService) Stop(ctx context.Context, userID string) (string, error) {
	if !s.store.Delete(userID) {
		return "", ErrNoActiveSession
	}
	return "🛑 Entrevista terminada. Usá `/interview start` cuando quieras otra.", nil
}

// Active es el snapshot de diagnóstico para `/interview active`.
func (s *InterviewService) Active() []domain.Session {
	return s.store.Snapshot()
}

// RandomQuestion sirve `/pregunta`: una pregunta suelta del banco, sin
// sesión de por medio.
func (s *InterviewService) RandomQuestion(ctx context.Context, itype domain.InterviewType, diff domain.Difficulty) (string, error) {
	q, err := s.questions.Random(ctx, itype, diff)
	if err == storage.ErrNotFound {
		return "", ErrNoQuestions
	}
	if err != nil {
		return "", err
	}
	return formatQuestion(itype, diff, q), nil
}

// AddQuestion suma una pregunta al banco. Lo usa `/addpregunta` (admins).
func (s *InterviewService) AddQuestion(ctx context.Context, itype domain.InterviewType, diff domain.Difficulty, text string, topics []string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("la pregunta no puede estar vacía")
	}
	q := domain.Question{Type: itype, Difficulty: diff, Text: text, Topics: topics}
	if err := s.questions.Insert(ctx, q); err != nil {
		return "", fmt.Errorf("guardar pregunta: %w", err)
	}
	return fmt.Sprintf("✅ Pregunta agregada al banco (%s / %s).", itype, diff), nil
}

// HandleReaction es el único punto de entrada de reacciones de menú.
// Todo lo que no matchea un menú pendiente se ignora en silencio: el
// sistema tolera reacciones sueltas y entregas duplicadas.
func (s *InterviewService) HandleReaction(ctx context.Context, userID, messageID, emoji string) {
	p, ok := s.store.Pending(userID)
	if !ok || p.MessageID != messageID {
		return
	}

	switch p.Kind {
	case domain.SelectionType:
		itype, ok := typeEmojis[emoji]
		if !ok {
			return // emoji que no es opción: no-op
		}
		if !s.store.ConsumePending(userID, messageID) {
			return
		}
		applied := s.store.Mutate(userID, func(sess *domain.Session) {
			sess.Type = itype
			sess.Status = domain.StatusSelectingDifficulty
		})
		if !applied {
			return // la sesión murió entre el menú y la reacción
		}
		if err := s.sendDifficultyMenu(ctx, userID); err != nil {
			s.teardown(userID, "No pude mandarte el menú de dificultad")
		}

	case domain.SelectionDifficulty:
		diff, ok := difficultyEmojis[emoji]
		if !ok {
			return
		}
		if !s.store.ConsumePending(userID, messageID) {
			return
		}
		if !s.store.Mutate(userID, func(sess *domain.Session) { sess.Difficulty = diff }) {
			return
		}
		s.askQuestion(ctx, userID)
	}
}

// askQuestion busca una pregunta del banco y la manda. Si no hay para la
// combinación elegida, el error es recuperable: se vuelve al menú de
// dificultad sin destruir la sesión.
func (s *InterviewService) askQuestion(ctx context.Context, userID string) {
	sess, ok := s.store.Get(userID)
	if !ok {
		return
	}

	q, err := s.questions.Random(ctx, sess.Type, sess.Difficulty)
	if err == storage.ErrNotFound {
		_, _ = s.msgr.SendDM(ctx, userID, fmt.Sprintf(
			"⚠️ No hay preguntas de **%s** en nivel **%s** todavía. Elegí otra dificultad.",
			sess.Type, sess.Difficulty))
		s.store.Mutate(userID, func(sess *domain.Session) {
			sess.Status = domain.StatusSelectingDifficulty
		})
		if err := s.sendDifficultyMenu(ctx, userID); err != nil {
			s.teardown(userID, "No pude mandarte el menú de dificultad")
		}
		return
	}
	if err != nil {
		s.teardown(userID, "No pude obtener una pregunta")
		return
	}

	applied := s.store.Mutate(userID, func(sess *domain.Session) {
		sess.CurrentQuestion = &q
		sess.Status = domain.StatusWaitingForAnswer
	})
	if !applied {
		return
	}
	_, _ = s.msgr.SendDM(ctx, userID, formatQuestion(sess.Type, sess.Difficulty, q))
}

// HandleAnswer procesa una respuesta libre que llegó por DM. La toma del
// turno es atómica: un segundo mensaje mientras evaluamos recibe un aviso
// y se descarta (no se encola).
func (s *InterviewService) HandleAnswer(ctx context.Context, userID, text string) {
	ok, busy := s.store.BeginProcessing(userID)
	if busy {
		_, _ = s.msgr.SendDM(ctx, userID, "⏳ Todavía estoy procesando tu respuesta anterior. Dame un momento...")
		return
	}
	if !ok {
		return // sin sesión o no esperando respuesta: lo ignora
	}

	_, _ = s.msgr.SendDM(ctx, userID, "🔄 Procesando tu respuesta... puede tardar un minuto.")

	// la evaluación es lenta: sale del handler. Sin cancelación atada al
	// usuario: si la sesión muere en el medio, el resultado se descarta.
	go s.processAnswer(userID, text)
}

func (s *InterviewService) processAnswer(userID, answer string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.evalTimeout)
	defer cancel()
	defer s.store.EndProcessing(userID)

	snap, ok := s.store.Get(userID)
	if !ok || snap.CurrentQuestion == nil {
		return
	}
	question := snap.CurrentQuestion.Text

	if !s.store.Mutate(userID, func(sess *domain.Session) { sess.AppendAnswer(answer) }) {
		return
	}

	needsFollowUp, followUp, err := s.eval.EvaluateAnswer(ctx, question, answer)
	if err != nil {
		log.Printf("[interview] evaluate user=%s: %v", userID, err)
		s.teardown(userID, "No pude evaluar tu respuesta")
		return
	}

	// tope duro de repreguntas: pasado el límite se resume sí o sí,
	// diga lo que diga el modelo
	if needsFollowUp && snap.FollowUpCount < domain.MaxFollowUps {
		applied := s.store.Mutate(userID, func(sess *domain.Session) {
			sess.FollowUpCount++
			sess.CurrentQuestion = &domain.Question{Text: followUp}
			sess.Status = domain.StatusWaitingForAnswer
		})
		if !applied {
			return // sesión terminada mientras evaluábamos
		}
		_, _ = s.msgr.SendDM(ctx, userID, "🔁 **Repregunta:** "+followUp)
		return
	}

	final, ok := s.store.Get(userID)
	if !ok {
		return
	}
	summary, err := s.eval.Summarize(ctx, final.Type, final.Difficulty, final.History)
	if err != nil {
		log.Printf("[interview] summarize user=%s: %v", userID, err)
		s.teardown(userID, "No pude generar el resumen")
		return
	}

	if !s.store.Mutate(userID, func(sess *domain.Session) { sess.Status = domain.StatusCompleted }) {
		return // stop durante el resumen: no hay a quién entregarle nada
	}
	final.Status = domain.StatusCompleted

	_, _ = s.msgr.SendDM(ctx, userID, formatFeedback(summary))
	_, _ = s.msgr.SendDM(ctx, userID, "🏁 **Entrevista completa.** ¡Gracias por practicar! Usá `/interview start` para otra ronda.")

	s.saveRecord(ctx, final, summary)
	s.store.Delete(userID)
}

// teardown: error fatal por sesión — se avisa una vez y no queda zombie.
// Usa su propio contexto: el que venía puede estar ya vencido (timeout de
// evaluación) y el aviso tiene que salir igual.
func (s *InterviewService) teardown(userID, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_, _ = s.msgr.SendDM(ctx, userID, "❌ "+reason+". La sesión quedó cerrada; probá de nuevo con `/interview start`.")
	s.store.Delete(userID)
}

// saveRecord persiste el transcript; best effort, un fallo acá no le
// cambia nada al usuario.
func (s *InterviewService) saveRecord(ctx context.Context, sess domain.Session, summary domain.Summary) {
	transcript, err := json.Marshal(sess.History)
	if err != nil {
		log.Printf("[interview] marshal transcript user=%s: %v", sess.UserID, err)
		return
	}
	rec := storage.InterviewRecord{
		DiscordUserID: sess.UserID,
		Type:          string(sess.Type),
		Difficulty:    string(sess.Difficulty),
		MeetsBar:      summary.MeetsBar,
		Assessment:    summary.OverallAssessment,
		Transcript:    transcript,
	}
	if err := s.history.Insert(ctx, rec); err != nil {
		log.Printf("[interview] save history user=%s: %v", sess.UserID, err)
	}

	points := completionPoints
	if summary.MeetsBar {
		points += meetsBarBonus
	}
	if err := s.profiles.AddPoints(ctx, sess.UserID, points); err != nil {
		log.Printf("[interview] acreditar puntos user=%s: %v", sess.UserID, err)
	}
}

// ---------- menús y formato ----------

func (s *InterviewService) sendTypeMenu(ctx context.Context, userID string) error {
	msgID, err := s.msgr.SendDM(ctx, userID,
		"**¿Qué tipo de entrevista querés practicar?**\n"+
			"💻 Técnica — programación y fundamentos\n"+
			"👥 Behavioral — soft skills y experiencias\n"+
			"📊 System design — arquitectura y diseño\n\n"+
			"Reaccioná con el emoji de tu elección.")
	if err != nil {
		return err
	}
	if err := s.msgr.ReactDM(ctx, userID, msgID, typeEmojiOrder); err != nil {
		return err
	}
	s.store.SetPending(domain.PendingSelection{
		UserID:    userID,
		MessageID: msgID,
		Kind:      domain.SelectionType,
	})
	return nil
}

func (s *InterviewService) sendDifficultyMenu(ctx context.Context, userID string) error {
	msgID, err := s.msgr.SendDM(ctx, userID,
		"**Elegí la dificultad:**\n"+
			"🟢 Easy — para arrancar\n"+
			"🟡 Medium — nivel intermedio\n"+
			"🔴 Hard — para gente con experiencia\n\n"+
			"Reaccioná con el emoji de tu elección.")
	if err != nil {
		return err
	}
	if err := s.msgr.ReactDM(ctx, userID, msgID, difficultyEmojiOrder); err != nil {
		return err
	}
	s.store.SetPending(domain.PendingSelection{
		UserID:    userID,
		MessageID: msgID,
		Kind:      domain.SelectionDifficulty,
	})
	return nil
}

func formatQuestion(itype domain.InterviewType, diff domain.Difficulty, q domain.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Entrevista %s — nivel %s**\n\n%s\n", itype, diff, q.Text)
	if len(q.Topics) > 0 {
		fmt.Fprintf(&b, "\n📌 Temas: %s\n", strings.Join(q.Topics, ", "))
	}
	b.WriteString("\nEscribí tu respuesta cuando estés listo. Tomate tu tiempo.")
	return b.String()
}

func formatFeedback(sum domain.Summary) string {
	var b strings.Builder
	b.WriteString("📝 **Feedback de la entrevista**\n\n")
	if sum.OverallAssessment != "" {
		b.WriteString(sum.OverallAssessment + "\n")
	}
	if len(sum.Strengths) > 0 {
		b.WriteString("\n💪 **Fortalezas**\n")
		for _, s := range sum.Strengths {
			b.WriteString("• " + s + "\n")
		}
	}
	if len(sum.ImprovementAreas) > 0 {
		b.WriteString("\n🎯 **A mejorar**\n")
		for _, s := range sum.ImprovementAreas {
			b.WriteString("• " + s + "\n")
		}
	}
	if len(sum.Examples) > 0 {
		b.WriteString("\n🔍 **Ejemplos**\n")
		for _, s := range sum.Examples {
			b.WriteString("• " + s + "\n")
		}
	}
	return b.String()
}
