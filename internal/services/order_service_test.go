package services_test

import (
	"testing"

	"proshop/internal/apperrors"
	"proshop/internal/models"
	"proshop/internal/repositories"
	"proshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) *repositories.MockProductRepository {
	t.Helper()
	repo := repositories.NewMockProductRepository()
	products := []models.Product{
		{ID: "prod-1", Name: "Laptop", Price: decimal.RequireFromString("1200.00"), Stock: 10},
		{ID: "prod-2", Name: "Keyboard", Price: decimal.RequireFromString("75.00"), Stock: 25},
		{ID: "prod-3", Name: "Mouse", Price: decimal.RequireFromString("25.00"), Stock: 50},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
	return repo
}

func newOrderService(t *testing.T) (*services.OrderService, *repositories.MockOrderRepository) {
	t.Helper()
	orderRepo := repositories.NewMockOrderRepository()
	return services.NewOrderService(orderRepo, seedCatalog(t), nil), orderRepo
}

var (
	owner    = models.Requester{UserID: "user-1", Role: models.RoleUser}
	stranger = models.Requester{UserID: "user-2", Role: models.RoleUser}
	admin    = models.Requester{UserID: "admin-1", Role: models.RoleAdmin}
)

func validInput() services.CreateOrderInput {
	return services.CreateOrderInput{
		OrderItems: []models.OrderItem{
			{ProductID: "prod-2", Quantity: 1},
		},
		ShippingAddress: models.ShippingAddress{
			Address:    "1 Main St",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "US",
			FullName:   "Test User",
		},
		PaymentMethod: "Credit Card",
		ItemsPrice:    decimal.RequireFromString("80"),
		TaxPrice:      decimal.RequireFromString("12"),
		ShippingPrice: decimal.RequireFromString("8"),
		TotalPrice:    decimal.RequireFromString("100"),
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	service, _ := newOrderService(t)

	order, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, owner.UserID, order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.DeliveredAt)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("100")))

	// Name and unit price are snapshotted from the catalog
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Keyboard", order.OrderItems[0].Name)
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.RequireFromString("75.00")))
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	service, _ := newOrderService(t)

	// Empty items
	input := validInput()
	input.OrderItems = nil
	_, err := service.CreateOrder(input, owner)
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)

	// Totals that do not add up
	input = validInput()
	input.TotalPrice = decimal.RequireFromString("99")
	_, err = service.CreateOrder(input, owner)
	assert.ErrorAs(t, err, &validation)

	// Unknown product
	input = validInput()
	input.OrderItems = []models.OrderItem{{ProductID: "prod-99", Quantity: 1}}
	_, err = service.CreateOrder(input, owner)
	assert.ErrorAs(t, err, &validation)

	// Zero quantity
	input = validInput()
	input.OrderItems = []models.OrderItem{{ProductID: "prod-2", Quantity: 0}}
	_, err = service.CreateOrder(input, owner)
	assert.ErrorAs(t, err, &validation)
}

func TestOrderService_GetOrder_Authorization(t *testing.T) {
	service, _ := newOrderService(t)

	order, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)

	// Owner and admin may read
	got, err := service.GetOrder(order.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	_, err = service.GetOrder(order.ID, admin)
	assert.NoError(t, err)

	// A different user may not
	_, err = service.GetOrder(order.ID, stranger)
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Missing order
	_, err = service.GetOrder("no-such-order", admin)
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestOrderService_Lifecycle(t *testing.T) {
	service, _ := newOrderService(t)

	// create order with itemsPrice=80, taxPrice=12, shippingPrice=8,
	// totalPrice=100 -> pending, unpaid
	order, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.False(t, order.IsPaid)

	// MarkPaid -> paid, processing
	receipt := models.PaymentResult{ID: "pay-1", Status: "COMPLETED", EmailAddress: "buyer@example.com"}
	order, err = service.MarkPaid(order.ID, receipt, owner)
	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	assert.NotNil(t, order.PaidAt)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, "pay-1", order.PaymentResult.ID)

	// SetStatus shipped -> shipped, delivery flags unchanged
	order, err = service.SetStatus(order.ID, models.StatusShipped, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, order.Status)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.DeliveredAt)

	// MarkDelivered -> delivered flag, timestamp and status all set
	order, err = service.MarkDelivered(order.ID, admin)
	require.NoError(t, err)
	assert.True(t, order.IsDelivered)
	assert.NotNil(t, order.DeliveredAt)
	assert.Equal(t, models.StatusDelivered, order.Status)
}

func TestOrderService_MarkPaid_SecondReceiptWins(t *testing.T) {
	service, _ := newOrderService(t)

	order, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)

	first := models.PaymentResult{ID: "pay-1", Status: "COMPLETED"}
	order, err = service.MarkPaid(order.ID, first, owner)
	require.NoError(t, err)
	firstPaidAt := order.PaidAt

	second := models.PaymentResult{ID: "pay-2", Status: "COMPLETED"}
	order, err = service.MarkPaid(order.ID, second, owner)
	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	assert.Equal(t, "pay-2", order.PaymentResult.ID)
	assert.NotNil(t, firstPaidAt)
	assert.NotNil(t, order.PaidAt)
}

func TestOrderService_MarkPaid_ForcesProcessing(t *testing.T) {
	service, _ := newOrderService(t)

	order, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)

	// Ship the order, then confirm payment: the reference behavior always
	// forces status back to processing.
	_, err = service.SetStatus(order.ID, models.StatusShipped, admin)
	require.NoError(t, err)

	order, err = service.MarkPaid(order.ID, models.PaymentResult{ID: "pay-1"}, owner)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
}

func TestOrderService_SetStatus(t *testing.T) {
	service, _ := newOrderService(t)

	order, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)

	// Non-admin rejected
	_, err = service.SetStatus(order.ID, models.StatusShipped, owner)
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Unknown status rejected
	_, err = service.SetStatus(order.ID, "unknown", admin)
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)

	// Setting delivered records the delivery side effects
	order, err = service.SetStatus(order.ID, models.StatusDelivered, admin)
	require.NoError(t, err)
	assert.True(t, order.IsDelivered)
	assert.NotNil(t, order.DeliveredAt)

	// Moving away from delivered does NOT clear the delivery flags
	order, err = service.SetStatus(order.ID, models.StatusProcessing, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.True(t, order.IsDelivered)
	assert.NotNil(t, order.DeliveredAt)
}

func TestOrderService_Lists(t *testing.T) {
	service, _ := newOrderService(t)

	_, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)
	_, err = service.CreateOrder(validInput(), stranger)
	require.NoError(t, err)

	mine, err := service.ListMine(owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, owner.UserID, mine[0].UserID)

	// ListAll is admin-only
	_, err = service.ListAll(owner)
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	all, err := service.ListAll(admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderService_Delete(t *testing.T) {
	service, _ := newOrderService(t)

	order, err := service.CreateOrder(validInput(), owner)
	require.NoError(t, err)

	// Owner cannot delete
	err = service.DeleteOrder(order.ID, owner)
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Admin hard-deletes
	require.NoError(t, service.DeleteOrder(order.ID, admin))
	_, err = service.GetOrder(order.ID, admin)
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	// Deleting again misses
	err = service.DeleteOrder(order.ID, admin)
	assert.ErrorAs(t, err, &notFound)
}
