package events

import "sync"

// Op tipo de operación confirmada sobre una tabla.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event cambio de fila confirmado por el almacén.
type Event struct {
	Table string
	Op    Op
	Row   any
}

// Handler consumidor de eventos de cambio. Se invoca de forma síncrona
// tras la escritura confirmada.
type Handler func(Event)

// Notifier fan-out síncrono de cambios de fila a observadores registrados.
// Cancel es seguro frente a una publicación concurrente: cada Publish
// trabaja sobre una instantánea de los handlers, así que un observador
// cancelado puede recibir como mucho un evento ya en vuelo.
type Notifier struct {
	mu       sync.RWMutex
	seq      int
	handlers map[int]Handler
}

// NewNotifier construye un notificador vacío.
func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[int]Handler)}
}

// Subscription identifica un observador registrado.
type Subscription struct {
	id int
	n  *Notifier
}

// Subscribe registra un observador y devuelve su suscripción.
func (n *Notifier) Subscribe(h Handler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	n.handlers[n.seq] = h
	return &Subscription{id: n.seq, n: n}
}

// Cancel elimina el observador. Idempotente.
func (s *Subscription) Cancel() {
	if s == nil || s.n == nil {
		return
	}
	s.n.mu.Lock()
	delete(s.n.handlers, s.id)
	s.n.mu.Unlock()
}

// Publish entrega el evento a todos los observadores registrados, en
// la misma goroutine del caller.
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	snapshot := make([]Handler, 0, len(n.handlers))
	for _, h := range n.handlers {
		snapshot = append(snapshot, h)
	}
	n.mu.RUnlock()

	for _, h := range snapshot {
		h(e)
	}
}
