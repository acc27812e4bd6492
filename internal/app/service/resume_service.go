package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/descalante/interview-coach-bot/internal/domain"
)

// Reviewer lo implementa internal/adapters/llm.Provider
type Reviewer interface {
	ResumeFeedback(ctx context.Context, resumeText string) (domain.Summary, error)
}

// ResumeService: el usuario pide review con /resume, el bot le abre DM y
// el siguiente mensaje largo que mande se toma como el CV.
type ResumeService struct {
	msgr     Messenger
	reviewer Reviewer

	mu      sync.Mutex
	pending map[string]time.Time // userID → cuándo pidió la review

	reviewTimeout time.Duration
}

func NewResumeService(msgr Messenger, reviewer Reviewer) *ResumeService {
	return &ResumeService{
		msgr:          msgr,
		reviewer:      reviewer,
		pending:       make(map[string]time.Time),
		reviewTimeout: 3 * time.Minute,
	}
}

// Request marca la review pendiente y pide el CV por DM.
func (s *ResumeService) Request(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	if _, ok := s.pending[userID]; ok {
		s.mu.Unlock()
		return "ℹ️ Ya tenés una review pendiente: mandame tu CV por DM.", nil
	}
	s.pending[userID] = time.Now()
	s.mu.Unlock()

	if _, err := s.msgr.SendDM(ctx, userID,
		"📄 **Review de CV**\nPegame el texto de tu CV en un mensaje y te devuelvo feedback detallado."); err != nil {
		s.mu.Lock()
		delete(s.pending, userID)
		s.mu.Unlock()
		return "⚠️ No pude mandarte DM. Habilitá los mensajes directos del server y probá de nuevo.", nil
	}
	return "📬 Revisá tus DMs para mandar tu CV.", nil
}

// HandleDM procesa un DM si el usuario tiene review pendiente. Devuelve
// false cuando el mensaje no es para este servicio.
func (s *ResumeService) HandleDM(ctx context.Context, userID, text string) bool {
	s.mu.Lock()
	_, ok := s.pending[userID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.pending, userID)
	s.mu.Unlock()

	if len(strings.TrimSpace(text)) < 100 {
		// demasiado corto para ser un CV: se lo pedimos de nuevo
		s.mu.Lock()
		s.pending[userID] = time.Now()
		s.mu.Unlock()
		_, _ = s.msgr.SendDM(ctx, userID,
			"⚠️ Eso parece muy corto para un CV. Pegá el texto completo en un solo mensaje.")
		return true
	}

	_, _ = s.msgr.SendDM(ctx, userID, "🔄 Analizando tu CV... dame un minuto.")
	go s.review(userID, text)
	return true
}

func (s *ResumeService) review(userID, resumeText string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.reviewTimeout)
	defer cancel()

	sum, err := s.reviewer.ResumeFeedback(ctx, resumeText)
	if err != nil {
		log.Printf("[resume] review user=%s: %v", userID, err)
		_, _ = s.msgr.SendDM(ctx, userID, "❌ No pude analizar tu CV. Probá de nuevo en un rato con `/resume`.")
		return
	}
	_, _ = s.msgr.SendDM(ctx, userID, formatResumeFeedback(sum))
}

// Sweep descarta pedidos de review abandonados.
func (s *ResumeService) Sweep(now time.Time, maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, at := range s.pending {
		if now.Sub(at) > maxAge {
			delete(s.pending, userID)
			log.Printf("[resume] pedido de %s abandonado, lo descarto", userID)
		}
	}
}

func formatResumeFeedback(sum domain.Summary) string {
	var b strings.Builder
	b.WriteString("📄 **Feedback de tu CV**\n\n")
	if sum.OverallAssessment != "" {
		b.WriteString(sum.OverallAssessment + "\n")
	}
	if len(sum.Strengths) > 0 {
		b.WriteString("\n💪 **Lo que está bien**\n")
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
		b.WriteString("\n🔍 **Sugerencias concretas**\n")
		for _, s := range sum.Examples {
			b.WriteString("• " + s + "\n")
		}
	}
	b.WriteString("\n¡Éxitos con la búsqueda! 🚀")
	return b.String()
}
