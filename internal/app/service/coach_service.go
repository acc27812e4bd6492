package service

import (
	"context"
	"fmt"
	"strings"
)

// Coach lo implementa internal/adapters/llm.Provider
type Coach interface {
	CoachReply(ctx context.Context, question string) (string, error)
}

// Límite práctico por mensaje de Discord (2000), con margen para el
// formato que agregamos alrededor.
const coachChunkSize = 1900

// CoachService responde preguntas sueltas de carrera y entrevistas, sin
// sesión de por medio.
type CoachService struct {
	coach Coach
}

func NewCoachService(coach Coach) *CoachService {
	return &CoachService{coach: coach}
}

// Ask devuelve la respuesta en cachos listos para mandar por Discord.
func (s *CoachService) Ask(ctx context.Context, question string) ([]string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return []string{"⚠️ Decime qué querés consultar, por ejemplo: `/coach cómo negocio mi sueldo`."}, nil
	}
	reply, err := s.coach.CoachReply(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("coach: %w", err)
	}
	return chunkMessage("🧑‍🏫 "+reply, coachChunkSize), nil
}

// chunkMessage parte el texto respetando saltos de línea cuando puede.
func chunkMessage(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}
	var chunks []string
	for len(text) > size {
		cut := strings.LastIndex(text[:size], "\n")
		if cut <= 0 {
			cut = size
		}
		chunks = append(chunks, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
