package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_EntregaATodosLosObservadores(t *testing.T) {
	n := NewNotifier()

	var got1, got2 []Event
	n.Subscribe(func(e Event) { got1 = append(got1, e) })
	n.Subscribe(func(e Event) { got2 = append(got2, e) })

	ev := Event{Table: "articles", Op: OpInsert, Row: "fila"}
	n.Publish(ev)

	require.Len(t, got1, 1)
	require.Len(t, got2, 1)
	assert.Equal(t, ev, got1[0])
	assert.Equal(t, ev, got2[0])
}

func TestNotifier_EntregaSincronaEnLaMismaGoroutine(t *testing.T) {
	n := NewNotifier()

	delivered := false
	n.Subscribe(func(e Event) { delivered = true })

	n.Publish(Event{Table: "receipts", Op: OpInsert})
	assert.True(t, delivered, "el handler corre antes de que Publish retorne")
}

func TestSubscription_CancelDetieneLaEntrega(t *testing.T) {
	n := NewNotifier()

	var count int
	sub := n.Subscribe(func(e Event) { count++ })

	n.Publish(Event{Table: "stores", Op: OpUpdate})
	sub.Cancel()
	n.Publish(Event{Table: "stores", Op: OpUpdate})

	assert.Equal(t, 1, count, "tras Cancel no llegan más eventos")
}

func TestSubscription_CancelEsIdempotente(t *testing.T) {
	n := NewNotifier()
	sub := n.Subscribe(func(e Event) {})

	sub.Cancel()
	assert.NotPanics(t, func() { sub.Cancel() })

	var nilSub *Subscription
	assert.NotPanics(t, func() { nilSub.Cancel() })
}

func TestNotifier_CancelDuranteUnPublishConcurrente(t *testing.T) {
	n := NewNotifier()

	var mu sync.Mutex
	counts := make(map[int]int)
	subs := make([]*Subscription, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		subs = append(subs, n.Subscribe(func(e Event) {
			mu.Lock()
			counts[i]++
			mu.Unlock()
		}))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			n.Publish(Event{Table: "emissions", Op: OpInsert})
		}
	}()
	go func() {
		defer wg.Done()
		for _, s := range subs {
			s.Cancel()
		}
	}()
	wg.Wait()

	// Sin aserciones de conteo exacto: lo que se verifica es la ausencia de
	// carreras y de pánicos con el detector de carreras activado.
	n.Publish(Event{Table: "emissions", Op: OpInsert})
	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.GreaterOrEqual(t, total, 0)
}
