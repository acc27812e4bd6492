package llm

import (
	"strings"

	"github.com/descalante/interview-coach-bot/internal/domain"
)

const defaultFollowUp = "Can you elaborate more on your answer?"

// ParseEvaluation decide, a partir del texto libre del modelo, si hace
// falta repregunta y cuál. Es best-effort a propósito: si el modelo pide
// follow-up pero no logramos extraer la pregunta, usamos una genérica.
func ParseEvaluation(content string) (needsFollowUp bool, followUp string) {
	lower := strings.ToLower(content)
	if !strings.Contains(lower, "follow-up needed") &&
		!strings.Contains(lower, "ask a follow-up") &&
		!strings.Contains(lower, "follow-up question") {
		return false, ""
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// heurística simple para encontrar la pregunta
		if strings.Contains(line, "?") && len(line) < 150 {
			return true, stripBullet(line)
		}
	}
	return true, defaultFollowUp
}

// ParseSummary corta el texto del modelo en secciones escaneando markers
// por línea (case-insensitive) y juntando bullets hasta el próximo marker.
// Sin markers → secciones vacías, nunca error.
func ParseSummary(content string) domain.Summary {
	var s domain.Summary
	var assessment strings.Builder

	section := ""
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "overall assessment") || strings.Contains(lower, "assessment"):
			if section != "assessment" {
				section = "assessment"
				continue
			}
		case strings.Contains(lower, "strength") || strings.Contains(lower, "positive"):
			section = "strengths"
			continue
		case strings.Contains(lower, "improvement") || (strings.Contains(lower, "area") && strings.Contains(lower, "improve")):
			section = "improvement"
			continue
		case strings.Contains(lower, "example") || strings.Contains(lower, "specific"):
			section = "examples"
			continue
		}

		switch section {
		case "assessment":
			assessment.WriteString(line)
			assessment.WriteString(" ")
		case "strengths":
			s.Strengths = append(s.Strengths, stripBullet(line))
		case "improvement":
			s.ImprovementAreas = append(s.ImprovementAreas, stripBullet(line))
		case "examples":
			s.Examples = append(s.Examples, stripBullet(line))
		}
	}

	s.OverallAssessment = strings.TrimSpace(assessment.String())
	s.MeetsBar = meetsBar(s.OverallAssessment)
	return s
}

// meetsBar: heurística de substring — "meet"+"bar" sin negación. Frágil
// frente a dobles negaciones, está asumido (ver DESIGN.md).
func meetsBar(assessment string) bool {
	lower := strings.ToLower(assessment)
	if !strings.Contains(lower, "meet") || !strings.Contains(lower, "bar") {
		return false
	}
	for _, neg := range []string{"not meet", "doesn't meet", "does not meet"} {
		if strings.Contains(lower, neg) {
			return false
		}
	}
	return true
}

func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, pre := range []string{"- ", "• ", "* "} {
		if strings.HasPrefix(line, pre) {
			return strings.TrimSpace(line[len(pre):])
		}
	}
	// numeradas: "1. foo" / "2) bar"
	if len(line) > 2 && line[0] >= '0' && line[0] <= '9' {
		if line[1] == '.' || line[1] == ')' {
			return strings.TrimSpace(line[2:])
		}
	}
	return line
}
