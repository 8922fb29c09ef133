package changefeed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func TestBus_EntregaATodosLosSuscriptores(t *testing.T) {
	bus := changefeed.NewBus(testLogger())

	var got []changefeed.Event
	bus.Subscribe(changefeed.EntityProduct, func(ev changefeed.Event) { got = append(got, ev) })
	bus.Subscribe(changefeed.EntityProduct, func(ev changefeed.Event) { got = append(got, ev) })
	// Suscriptor de otra entidad: no debe recibir nada.
	bus.Subscribe(changefeed.EntitySale, func(changefeed.Event) {
		t.Fatal("el evento de producto no debe llegar a suscriptores de venta")
	})

	bus.Publish(changefeed.Event{Entity: changefeed.EntityProduct, Op: changefeed.OpCreated})

	assert.Len(t, got, 2)
	assert.Equal(t, changefeed.OpCreated, got[0].Op)
}

func TestBus_UnsubscribeDetieneLaEntrega(t *testing.T) {
	bus := changefeed.NewBus(testLogger())

	calls := 0
	sub := bus.Subscribe(changefeed.EntityCashTransaction, func(changefeed.Event) { calls++ })

	bus.Publish(changefeed.Event{Entity: changefeed.EntityCashTransaction, Op: changefeed.OpCreated})
	sub.Unsubscribe()
	bus.Publish(changefeed.Event{Entity: changefeed.EntityCashTransaction, Op: changefeed.OpCreated})
	// Darse de baja dos veces es inocuo.
	sub.Unsubscribe()

	assert.Equal(t, 1, calls)
}

func TestBus_PanicDeUnHandlerNoAfectaAlResto(t *testing.T) {
	bus := changefeed.NewBus(testLogger())

	delivered := false
	bus.Subscribe(changefeed.EntityStockMutation, func(changefeed.Event) { panic("handler roto") })
	bus.Subscribe(changefeed.EntityStockMutation, func(changefeed.Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(changefeed.Event{Entity: changefeed.EntityStockMutation, Op: changefeed.OpCreated})
	})
	assert.True(t, delivered)
}

func TestBus_PublishSinSuscriptoresEsNoOp(t *testing.T) {
	bus := changefeed.NewBus(nil)

	assert.NotPanics(t, func() {
		bus.Publish(changefeed.Event{Entity: changefeed.EntityPurchase, Op: changefeed.OpDeleted})
	})
}
