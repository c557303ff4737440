package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/tableauth"
)

func testSnapshot() *models.CatalogSnapshot {
	manual := 12.50
	return &models.CatalogSnapshot{
		Ingredients: map[int64]models.Ingredient{
			1: {ID: 1, Name: "gin", Pricing: models.ContainerPricing{Price: 120, VolumeMl: 750, YieldMl: 720}},
		},
		Drinks: []models.Drink{
			{
				ID: 1, Name: "Gin & Tonic", PriceMode: models.PriceModeMarkup, IsPublic: true,
				Recipe: []models.RecipeItem{{IngredientID: 1, Quantity: 45, Unit: models.UnitVolume}},
			},
			{ID: 2, Name: "House Lemonade", PriceMode: models.PriceModeManual, ManualPrice: &manual, IsPublic: true},
			{ID: 3, Name: "Staff Special", PriceMode: models.PriceModeManual, ManualPrice: &manual, IsPublic: false},
			{ID: 4, Name: "Freebie", PriceMode: models.PriceModeManual, IsPublic: true}, // no manual price -> 0
		},
		Settings: models.PricingSettings{
			MarkupMultiplier: 4,
			TargetCostRatio:  0.25,
			MlPerDash:        0.9,
			MlPerDrop:        0.05,
			Rounding:         models.RoundingEndX9,
		},
		UpdatedAt: time.Now(),
	}
}

type orderFixture struct {
	orders   *fakeOrderRepo
	sessions *fakeSessionRepo
	svc      OrderService
}

func newOrderFixture(secret string) *orderFixture {
	f := &orderFixture{orders: newFakeOrderRepo(), sessions: newFakeSessionRepo()}
	f.svc = NewOrderService(f.orders, f.sessions, &fakeCatalog{snapshot: testSnapshot()}, tableauth.New(secret), nil)
	return f
}

func TestCreateOrderPricesAgainstSnapshot(t *testing.T) {
	f := newOrderFixture("")

	order, err := f.svc.CreateOrder(CreateOrderRequest{
		Lines: []CartLineRequest{{DrinkID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	// cost 45 * 120/720 = 7.50; markup x4 = 30.00; end_x9 -> 30.90
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Gin & Tonic", order.Lines[0].DrinkName)
	assert.InDelta(t, 30.90, order.Lines[0].UnitPrice, 1e-9)
	assert.InDelta(t, 61.80, order.Lines[0].LineTotal, 1e-9)
	assert.InDelta(t, 61.80, order.Subtotal, 1e-9)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.SourceCounter, order.Source)
	assert.NotEmpty(t, order.Code)
}

func TestCreateOrderMergesIdenticalLines(t *testing.T) {
	f := newOrderFixture("")

	order, err := f.svc.CreateOrder(CreateOrderRequest{
		Lines: []CartLineRequest{
			{DrinkID: 1, Quantity: 2, Note: "no ice"},
			{DrinkID: 1, Quantity: 3, Note: "no ice"},
			{DrinkID: 1, Quantity: 1, Note: "extra lime"},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 2, "identical drink+note merge, different notes do not")
	assert.Equal(t, 5, order.Lines[0].Quantity)
	assert.Equal(t, "no ice", *order.Lines[0].Note)
	assert.Equal(t, 1, order.Lines[1].Quantity)
	assert.InDelta(t, float64(order.Lines[0].Quantity)*order.Lines[0].UnitPrice, order.Lines[0].LineTotal, 1e-9)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture("")

	tests := []struct {
		name string
		req  CreateOrderRequest
	}{
		{"empty cart", CreateOrderRequest{}},
		{"zero quantity", CreateOrderRequest{Lines: []CartLineRequest{{DrinkID: 1, Quantity: 0}}}},
		{"quantity above cap", CreateOrderRequest{Lines: []CartLineRequest{{DrinkID: 1, Quantity: 31}}}},
		{"unknown drink", CreateOrderRequest{Lines: []CartLineRequest{{DrinkID: 99, Quantity: 1}}}},
		{"hidden drink", CreateOrderRequest{Lines: []CartLineRequest{{DrinkID: 3, Quantity: 1}}}},
		{"zero-priced cart", CreateOrderRequest{Lines: []CartLineRequest{{DrinkID: 4, Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	t.Run("too many lines", func(t *testing.T) {
		req := CreateOrderRequest{}
		for i := 0; i < MaxCartLines+1; i++ {
			req.Lines = append(req.Lines, CartLineRequest{DrinkID: 1, Quantity: 1})
		}
		_, err := f.svc.CreateOrder(req)
		require.ErrorIs(t, err, ErrValidation)
	})

	assert.Empty(t, f.orders.orders, "no order may be persisted by a rejected cart")
}

func TestCreateOrderTableClaim(t *testing.T) {
	auth := tableauth.New("secret")
	sig := auth.Sign("T2")

	t.Run("verified claim requires an open session", func(t *testing.T) {
		f := &orderFixture{orders: newFakeOrderRepo(), sessions: newFakeSessionRepo()}
		f.svc = NewOrderService(f.orders, f.sessions, &fakeCatalog{snapshot: testSnapshot()}, auth, nil)

		_, err := f.svc.CreateOrder(CreateOrderRequest{
			Lines: []CartLineRequest{{DrinkID: 1, Quantity: 1}},
			Table: "T2", Signature: sig,
		})
		require.ErrorIs(t, err, ErrValidation)

		f.sessions.Insert(nil, &models.OrderSession{Code: "SRV-X", OpenedAt: time.Now()})
		order, err := f.svc.CreateOrder(CreateOrderRequest{
			Lines: []CartLineRequest{{DrinkID: 1, Quantity: 1}},
			Table: "T2", Signature: sig,
		})
		require.NoError(t, err)
		assert.Equal(t, models.SourceVerifiedTable, order.Source)
		assert.Equal(t, "T2", *order.TableCode)
	})

	t.Run("forged claim downgrades to counter and needs no session", func(t *testing.T) {
		f := &orderFixture{orders: newFakeOrderRepo(), sessions: newFakeSessionRepo()}
		f.svc = NewOrderService(f.orders, f.sessions, &fakeCatalog{snapshot: testSnapshot()}, auth, nil)

		order, err := f.svc.CreateOrder(CreateOrderRequest{
			Lines: []CartLineRequest{{DrinkID: 1, Quantity: 1}},
			Table: "T2", Signature: "0000000000000000000000000000000000000000000000000000000000000000",
		})
		require.NoError(t, err)
		assert.Equal(t, models.SourceCounter, order.Source)
		assert.Nil(t, order.TableCode)
	})
}

func TestCreateOrderCodeCollisionRetry(t *testing.T) {
	f := newOrderFixture("")
	f.orders.dupOnNextInserts = 2

	order, err := f.svc.CreateOrder(CreateOrderRequest{
		Lines: []CartLineRequest{{DrinkID: 1, Quantity: 1}},
	})
	require.NoError(t, err, "collisions within the retry limit are invisible to the caller")
	assert.NotZero(t, order.ID)
}

func TestCreateOrderCompensatesFailedLineInsert(t *testing.T) {
	f := newOrderFixture("")
	f.orders.failLineInsert = true

	_, err := f.svc.CreateOrder(CreateOrderRequest{
		Lines: []CartLineRequest{{DrinkID: 1, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, f.orders.orders, "header must not survive a failed line insert")
	assert.Empty(t, f.orders.lines)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture("")
	order, err := f.svc.CreateOrder(CreateOrderRequest{
		Lines: []CartLineRequest{{DrinkID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	t.Run("unknown status is rejected without mutation", func(t *testing.T) {
		_, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: "shipped"})
		require.ErrorIs(t, err, ErrValidation)
		stored, _ := f.orders.GetOrderByID(order.ID)
		assert.Equal(t, models.StatusPending, stored.Status)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		_, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.StatusCompleted})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("forward and corrective transitions", func(t *testing.T) {
		updated, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.StatusInProgress})
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, updated.Status)

		// pending <-> in_progress is the operator-correction pair
		updated, err = f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.StatusPending})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, updated.Status)

		_, err = f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.StatusInProgress})
		require.NoError(t, err)
		updated, err = f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.StatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, updated.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.StatusInProgress})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("repeating the current status is a no-op", func(t *testing.T) {
		updated, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.StatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, updated.Status)
	})

	t.Run("unknown order id", func(t *testing.T) {
		_, err := f.svc.UpdateOrderStatus(9999, UpdateOrderStatusRequest{Status: models.StatusInProgress})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetOrdersWatermark(t *testing.T) {
	f := newOrderFixture("")
	order, err := f.svc.CreateOrder(CreateOrderRequest{
		Lines: []CartLineRequest{{DrinkID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	t.Run("stale watermark returns full payload", func(t *testing.T) {
		since := order.UpdatedAt.Add(-time.Second)
		list, err := f.svc.GetOrders(models.OrderFilters{}, &since)
		require.NoError(t, err)
		assert.True(t, list.Changed)
		assert.Len(t, list.Orders, 1)
	})

	t.Run("tie means no change", func(t *testing.T) {
		since := order.UpdatedAt
		list, err := f.svc.GetOrders(models.OrderFilters{}, &since)
		require.NoError(t, err)
		assert.False(t, list.Changed)
		assert.Empty(t, list.Orders)
	})

	t.Run("future watermark means no change", func(t *testing.T) {
		since := order.UpdatedAt.Add(time.Second)
		list, err := f.svc.GetOrders(models.OrderFilters{}, &since)
		require.NoError(t, err)
		assert.False(t, list.Changed)
	})

	t.Run("unknown status filter rejected", func(t *testing.T) {
		bad := "shipped"
		_, err := f.svc.GetOrders(models.OrderFilters{Status: &bad}, nil)
		require.ErrorIs(t, err, ErrValidation)
	})
}
