// Package sched corre tareas recurrentes del bot con horarios declarativos
// y aislamiento de fallas: una tarea que explota no toca a las demás.
package sched

import (
	"fmt"
	"time"
)

// Tipos de horario soportados.
type ScheduleType string

const (
	// Corre a cualquier hora, respetando solo el intervalo.
	AllHours ScheduleType = "all_hours"
	// Días hábiles dentro de la ventana [Hours[0], Hours[1]). El filtro
	// de fin de semana es fijo.
	BusinessHours ScheduleType = "business_hours"
	// Una vez por día, dentro de la ventana de la hora configurada.
	Daily ScheduleType = "daily"
	// Solo en las horas listadas.
	SpecificHours ScheduleType = "specific_hours"
)

// Schedule describe cuándo le toca correr a una tarea. La decisión es pura
// (ShouldRun) para poder testearla sin relojes de verdad.
type Schedule struct {
	Type ScheduleType
	// Horas del día habilitadas (para Daily solo se usa la primera).
	Hours []int
	// Minutos desde el arranque de la hora en los que vale disparar.
	// 0 = toda la hora.
	MinuteWindow int
	// Intervalo mínimo entre corridas.
	Interval time.Duration
}

func (s Schedule) Validate() error {
	switch s.Type {
	case AllHours:
	case BusinessHours:
		if len(s.Hours) != 2 {
			return fmt.Errorf("schedule %s necesita [hora inicio, hora fin]", s.Type)
		}
		if s.Hours[0] >= s.Hours[1] {
			return fmt.Errorf("schedule %s: ventana inválida %d-%d", s.Type, s.Hours[0], s.Hours[1])
		}
	case Daily, SpecificHours:
		if len(s.Hours) == 0 {
			return fmt.Errorf("schedule %s necesita al menos una hora", s.Type)
		}
	default:
		return fmt.Errorf("schedule type desconocido: %q", s.Type)
	}
	for _, h := range s.Hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("hora fuera de rango: %d", h)
		}
	}
	return nil
}

// ShouldRun decide si la tarea dispara en este instante. lastRun en cero
// significa que nunca corrió.
func (s Schedule) ShouldRun(now, lastRun time.Time) bool {
	if s.Interval > 0 && !lastRun.IsZero() && now.Sub(lastRun) < s.Interval {
		return false
	}
	if !s.hourAllowed(now) {
		return false
	}
	if s.MinuteWindow > 0 && now.Minute() >= s.MinuteWindow {
		return false
	}
	if s.Type == Daily && !lastRun.IsZero() &&
		lastRun.Year() == now.Year() && lastRun.YearDay() == now.YearDay() {
		return false
	}
	return true
}

func (s Schedule) hourAllowed(now time.Time) bool {
	switch s.Type {
	case AllHours:
		return true
	case BusinessHours:
		wd := now.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
		if len(s.Hours) != 2 {
			return false
		}
		return now.Hour() >= s.Hours[0] && now.Hour() < s.Hours[1]
	case Daily, SpecificHours:
		for _, h := range s.Hours {
			if now.Hour() == h {
				return true
			}
		}
		return false
	}
	return false
}
