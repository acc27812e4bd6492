package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/descalante/interview-coach-bot/internal/domain"
)

// Provider expone las operaciones de alto nivel que el bot le pide al
// modelo: evaluar respuestas, armar el resumen final, coaching, etc.
// Envuelve un Completer con los defaults de tokens/temperatura.
type Provider struct {
	c           Completer
	maxTokens   int
	temperature float64
}

func NewProvider(c Completer, maxTokens int, temperature float64) *Provider {
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &Provider{c: c, maxTokens: maxTokens, temperature: temperature}
}

// EvaluateAnswer manda pregunta+respuesta al modelo y decide si hay
// repregunta. La salida del modelo es texto libre; el parseo es heurístico.
func (p *Provider) EvaluateAnswer(ctx context.Context, question, answer string) (bool, string, error) {
	prompt := fmt.Sprintf(evaluationPrompt, question, answer)
	content, err := p.c.Complete(ctx, prompt, p.maxTokens, p.temperature)
	if err != nil {
		return false, "", fmt.Errorf("evaluate: %w", err)
	}
	needs, followUp := ParseEvaluation(content)
	return needs, followUp, nil
}

// Summarize genera el resumen estructurado de toda la entrevista.
func (p *Provider) Summarize(ctx context.Context, itype domain.InterviewType, diff domain.Difficulty, history []domain.QAEntry) (domain.Summary, error) {
	prompt := fmt.Sprintf(summaryPrompt, itype, diff, formatTranscript(history))
	// resumen largo: más presupuesto de tokens que el resto
	content, err := p.c.Complete(ctx, prompt, 1500, p.temperature)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarize: %w", err)
	}
	return ParseSummary(content), nil
}

func (p *Provider) CoachReply(ctx context.Context, question string) (string, error) {
	content, err := p.c.Complete(ctx, fmt.Sprintf(coachPrompt, question), p.maxTokens, p.temperature)
	if err != nil {
		return "", fmt.Errorf("coach: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func (p *Provider) ResumeFeedback(ctx context.Context, resumeText string) (domain.Summary, error) {
	content, err := p.c.Complete(ctx, fmt.Sprintf(resumePrompt, resumeText), 1500, p.temperature)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("resume: %w", err)
	}
	return ParseSummary(content), nil
}

func (p *Provider) DailyTip(ctx context.Context) (string, error) {
	content, err := p.c.Complete(ctx, dailyTipPrompt, p.maxTokens, p.temperature)
	if err != nil {
		return "", fmt.Errorf("daily tip: %w", err)
	}
	return strings.TrimSpace(content), nil
}

// formatTranscript arma el Q&A plano que va dentro del prompt de resumen.
func formatTranscript(history []domain.QAEntry) string {
	var b strings.Builder
	for i, qa := range history {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, qa.Question, i+1, qa.Answer)
		for j, fu := range qa.FollowUps {
			fmt.Fprintf(&b, "  Follow-up %d: %s\n  Response %d: %s\n", j+1, fu.Question, j+1, fu.Answer)
		}
		b.WriteString("\n")
	}
	return b.String()
}
