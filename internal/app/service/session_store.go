package service

import (
	"sync"
	"time"

	"github.com/descalante/interview-coach-bot/internal/domain"
)

// SessionStore es la única fuente de verdad de "en qué parte de la
// entrevista está cada usuario". Un solo lock cubre sesiones y menús
// pendientes: el check-and-set de IsProcessing pasa por acá, nunca por el
// flag a mano.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	pending  map[string]domain.PendingSelection
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		pending:  make(map[string]domain.PendingSelection),
	}
}

// Create registra una sesión nueva en estado selecting_type.
// ErrAlreadyActive si el usuario ya tiene una.
func (st *SessionStore) Create(userID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[userID]; ok {
		return ErrAlreadyActive
	}
	st.sessions[userID] = &domain.Session{
		UserID:    userID,
		Status:    domain.StatusSelectingType,
		StartedAt: time.Now(),
	}
	return nil
}

// Get devuelve una copia de la sesión (los slices internos se comparten;
// los callers no los mutan).
func (st *SessionStore) Get(userID string) (domain.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return domain.Session{}, false
	}
	return *s, true
}

// Mutate aplica fn bajo el lock. Devuelve false si la sesión ya no existe:
// ese false es el descarte explícito de resultados tardíos (un modelo lento
// que termina después de que la sesión murió simplemente no aplica nada).
func (st *SessionStore) Mutate(userID string, fn func(*domain.Session)) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return false
	}
	fn(s)
	return true
}

func (st *SessionStore) Delete(userID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[userID]; !ok {
		return false
	}
	delete(st.sessions, userID)
	delete(st.pending, userID)
	return true
}

// BeginProcessing intenta tomar el turno de evaluación de forma atómica.
// ok=false,busy=true → ya hay una evaluación en vuelo (el caller avisa y
// descarta). ok=false,busy=false → la sesión no está esperando respuesta.
func (st *SessionStore) BeginProcessing(userID string) (ok, busy bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, found := st.sessions[userID]
	if !found {
		return false, false
	}
	if s.IsProcessing {
		return false, true
	}
	if s.Status != domain.StatusWaitingForAnswer {
		return false, false
	}
	s.IsProcessing = true
	s.Status = domain.StatusProcessing
	return true, false
}

// EndProcessing libera el turno. Siempre en defer del procesamiento, pase
// lo que pase. No-op si la sesión ya fue destruida.
func (st *SessionStore) EndProcessing(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return
	}
	s.IsProcessing = false
	if s.Status == domain.StatusProcessing {
		s.Status = domain.StatusWaitingForAnswer
	}
}

func (st *SessionStore) SetPending(p domain.PendingSelection) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	st.pending[p.UserID] = p
}

func (st *SessionStore) Pending(userID string) (domain.PendingSelection, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.pending[userID]
	return p, ok
}

// ConsumePending retira el menú pendiente solo si coincide el mensaje.
// La segunda entrega de la misma reacción encuentra el mapa vacío y es no-op.
func (st *SessionStore) ConsumePending(userID, messageID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.pending[userID]
	if !ok || p.MessageID != messageID {
		return false
	}
	delete(st.pending, userID)
	return true
}

// Snapshot copia todas las sesiones para diagnóstico.
func (st *SessionStore) Snapshot() []domain.Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, *s)
	}
	return out
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
