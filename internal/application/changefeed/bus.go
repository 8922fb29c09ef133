package changefeed

import (
	"sync"

	"github.com/tu-usuario/retail-backoffice/pkg/logger"
)

// Entity identifica el conjunto de entidades observable por el feed.
type Entity string

// Entidades observables.
const (
	EntityProduct         Entity = "product"
	EntityStockMutation   Entity = "stock_mutation"
	EntityCashTransaction Entity = "cash_transaction"
	EntitySale            Entity = "sale"
	EntityPurchase        Entity = "purchase"
)

// Op es el tipo de cambio notificado.
type Op string

// Operaciones notificadas.
const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Event es una notificación de cambio. Record lleva la entidad cambiada
// (puntero a entity.*); los consumidores hacen type-assert según Entity.
type Event struct {
	Entity Entity
	Op     Op
	Record any
}

// Handler procesa un evento. Se invoca de forma síncrona en la goroutine del
// publicador; los handlers deben ser baratos (invalidar un cache, encolar).
type Handler func(Event)

// Bus es el pub/sub en proceso del change feed. Entrega al-menos-una-vez a los
// suscriptores vivos dentro del mismo proceso; no garantiza orden entre
// entidades distintas y nunca es el único mecanismo de corrección: las vistas
// derivadas siempre pueden recomputarse a pedido.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Entity]map[int]Handler
	log    *logger.Logger
}

// NewBus construye el bus. El logger puede ser nil (eventos no se loguean).
func NewBus(log *logger.Logger) *Bus {
	return &Bus{subs: make(map[Entity]map[int]Handler), log: log}
}

// Subscription permite darse de baja del feed.
type Subscription struct {
	bus    *Bus
	entity Entity
	id     int
}

// Unsubscribe elimina el handler. Es seguro llamarlo más de una vez.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if m, ok := s.bus.subs[s.entity]; ok {
		delete(m, s.id)
	}
}

// Subscribe registra un handler para una entidad y devuelve la suscripción.
func (b *Bus) Subscribe(entity Entity, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[entity] == nil {
		b.subs[entity] = make(map[int]Handler)
	}
	b.nextID++
	id := b.nextID
	b.subs[entity][id] = h
	return &Subscription{bus: b, entity: entity, id: id}
}

// Publish entrega el evento a todos los suscriptores de la entidad. Un handler
// que entra en pánico no tumba al publicador ni al resto de los handlers.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Entity]))
	for _, h := range b.subs[ev.Entity] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, ev)
	}
}

func (b *Bus) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.Error().
				Str("entity", string(ev.Entity)).
				Str("op", string(ev.Op)).
				Interface("panic", r).
				Msg("handler del change feed entró en pánico")
		}
	}()
	h(ev)
}
