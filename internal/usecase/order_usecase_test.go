package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysend/internal/domain/entity"
)

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return order, nil
}

func (f *fakeOrderRepo) GetByTrackingCode(ctx context.Context, code string) (*entity.Order, error) {
	for _, order := range f.orders {
		if order.TrackingCode == code {
			return order, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID string, status string, limit, offset int) ([]*entity.Order, int64, error) {
	var out []*entity.Order
	for _, order := range f.orders {
		if order.SenderID != userID && order.CourierID != userID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		out = append(out, order)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	f.orders[order.ID] = order
	return nil
}

type fakeFlightRepo struct {
	flights map[string]*entity.Flight
}

func newFakeFlightRepo() *fakeFlightRepo {
	return &fakeFlightRepo{flights: make(map[string]*entity.Flight)}
}

func (f *fakeFlightRepo) Create(ctx context.Context, flight *entity.Flight) error {
	f.flights[flight.ID] = flight
	return nil
}

func (f *fakeFlightRepo) GetByID(ctx context.Context, id string) (*entity.Flight, error) {
	flight, ok := f.flights[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return flight, nil
}

func (f *fakeFlightRepo) ListByCourier(ctx context.Context, courierID string, limit, offset int) ([]*entity.Flight, int64, error) {
	var out []*entity.Flight
	for _, flight := range f.flights {
		if flight.CourierID == courierID {
			out = append(out, flight)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeFlightRepo) Search(ctx context.Context, origin, destination string, departAfter time.Time, limit, offset int) ([]*entity.Flight, int64, error) {
	var out []*entity.Flight
	for _, flight := range f.flights {
		if flight.Status == "open" {
			out = append(out, flight)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeFlightRepo) Update(ctx context.Context, flight *entity.Flight) error {
	f.flights[flight.ID] = flight
	return nil
}

func newOrderFixture() (*OrderUseCase, *fakeOrderRepo, *fakeFlightRepo, *fakeChatRepo, *fakeUserRepo, *fakeNotificationRepo) {
	orderRepo := newFakeOrderRepo()
	flightRepo := newFakeFlightRepo()
	chatRepo := newFakeChatRepo()
	userRepo := &fakeUserRepo{users: map[string]*entity.User{
		"sender":  {ID: "sender", Username: "Sam Sender", VerificationStatus: "verified"},
		"courier": {ID: "courier", Username: "Cara Courier", VerificationStatus: "verified", ExpoPushToken: "ExponentPushToken[courier]"},
	}}
	notificationRepo := &fakeNotificationRepo{}

	uc := NewOrderUseCase(orderRepo, flightRepo, chatRepo, userRepo, notificationRepo, &fakePushSender{})
	return uc, orderRepo, flightRepo, chatRepo, userRepo, notificationRepo
}

func seedOrder(orderRepo *fakeOrderRepo, id, status string) *entity.Order {
	order := &entity.Order{
		ID:                 id,
		TrackingCode:       "SS-" + strings.ToUpper(id),
		SenderID:           "sender",
		Status:             status,
		ItemType:           "document",
		OriginAirport:      "CGK",
		DestinationAirport: "NRT",
	}
	if status != "pending" {
		order.CourierID = "courier"
	}
	orderRepo.orders[id] = order
	return order
}

func seedFlight(flightRepo *fakeFlightRepo, id string) *entity.Flight {
	flight := &entity.Flight{
		ID:                 id,
		CourierID:          "courier",
		FlightNumber:       "GA874",
		OriginAirport:      "CGK",
		DestinationAirport: "NRT",
		Status:             "open",
		DepartureAt:        time.Now().Add(48 * time.Hour),
	}
	flightRepo.flights[id] = flight
	return flight
}

func TestCreateOrderRequiresVerification(t *testing.T) {
	uc, _, _, _, userRepo, _ := newOrderFixture()
	userRepo.users["sender"].VerificationStatus = "pending"

	_, err := uc.CreateOrder(context.Background(), "sender", CreateOrderInput{
		ItemType: "document", OriginAirport: "cgk", DestinationAirport: "nrt",
	})

	assert.Error(t, err)
}

func TestCreateOrderNormalizesAirports(t *testing.T) {
	uc, _, _, _, _, _ := newOrderFixture()

	order, err := uc.CreateOrder(context.Background(), "sender", CreateOrderInput{
		ItemType: "parcel", WeightKg: 2.5, OriginAirport: "cgk", DestinationAirport: "nrt",
	})

	require.NoError(t, err)
	assert.Equal(t, "CGK", order.OriginAirport)
	assert.Equal(t, "NRT", order.DestinationAirport)
	assert.Equal(t, "pending", order.Status)
	assert.True(t, strings.HasPrefix(order.TrackingCode, "SS-"))
	assert.Len(t, order.TrackingCode, 13)
}

func TestAcceptOrderMatchesAndCreatesChat(t *testing.T) {
	uc, orderRepo, flightRepo, chatRepo, _, notificationRepo := newOrderFixture()
	seedOrder(orderRepo, "o1", "pending")
	seedFlight(flightRepo, "f1")

	order, err := uc.AcceptOrder(context.Background(), "courier", "o1", "f1")

	require.NoError(t, err)
	assert.Equal(t, "matched", order.Status)
	assert.Equal(t, "courier", order.CourierID)
	require.NotEmpty(t, order.ChatID)

	chat := chatRepo.chats[order.ChatID]
	require.NotNil(t, chat)
	assert.ElementsMatch(t, []string{"sender", "courier"}, chat.Participants)
	assert.Equal(t, []string{"o1"}, chat.OrderIDs)

	require.Len(t, notificationRepo.created, 1)
	assert.Equal(t, "sender", notificationRepo.created[0].UserID)
	assert.Equal(t, entity.NotificationTypeOrderStatus, notificationRepo.created[0].Type)
}

func TestAcceptOrderReusesPairChat(t *testing.T) {
	uc, orderRepo, flightRepo, chatRepo, _, _ := newOrderFixture()
	seedOrder(orderRepo, "o1", "pending")
	seedFlight(flightRepo, "f1")

	existing := seedChat(chatRepo, "chat-existing", "sender", "courier")
	existing.OrderIDs = []string{"o0"}

	order, err := uc.AcceptOrder(context.Background(), "courier", "o1", "f1")

	require.NoError(t, err)
	assert.Equal(t, "chat-existing", order.ChatID)
	assert.Equal(t, []string{"o0", "o1"}, existing.OrderIDs)
	assert.Len(t, chatRepo.chats, 1, "no second chat for the same pair")
}

func TestAcceptOrderRejectsWrongRoute(t *testing.T) {
	uc, orderRepo, flightRepo, _, _, _ := newOrderFixture()
	seedOrder(orderRepo, "o1", "pending")
	flight := seedFlight(flightRepo, "f1")
	flight.DestinationAirport = "SIN"

	_, err := uc.AcceptOrder(context.Background(), "courier", "o1", "f1")
	assert.Error(t, err)
}

func TestAcceptOrderRejectsOwnOrder(t *testing.T) {
	uc, orderRepo, flightRepo, _, _, _ := newOrderFixture()
	seedOrder(orderRepo, "o1", "pending")
	seedFlight(flightRepo, "f1")

	_, err := uc.AcceptOrder(context.Background(), "sender", "o1", "f1")
	assert.Error(t, err)
}

func TestUpdateStatusTransitionTable(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{"pending", "cancelled", true},
		{"pending", "in_transit", false},
		{"matched", "in_transit", true},
		{"matched", "delivered", false},
		{"in_transit", "delivered", true},
		{"in_transit", "cancelled", false},
		{"delivered", "cancelled", false},
		{"cancelled", "matched", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, transitionAllowed(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestUpdateStatusCourierOnlyForTransit(t *testing.T) {
	uc, orderRepo, _, _, _, _ := newOrderFixture()
	seedOrder(orderRepo, "o1", "matched")

	_, err := uc.UpdateStatus(context.Background(), "sender", "o1", "in_transit")
	assert.Error(t, err)

	order, err := uc.UpdateStatus(context.Background(), "courier", "o1", "in_transit")
	require.NoError(t, err)
	assert.Equal(t, "in_transit", order.Status)
}

func TestUpdateStatusNotifiesCounterpart(t *testing.T) {
	uc, orderRepo, _, _, _, notificationRepo := newOrderFixture()
	seedOrder(orderRepo, "o1", "in_transit")

	_, err := uc.UpdateStatus(context.Background(), "courier", "o1", "delivered")

	require.NoError(t, err)
	require.Len(t, notificationRepo.created, 1)
	assert.Equal(t, "sender", notificationRepo.created[0].UserID)
	assert.Equal(t, "o1", notificationRepo.created[0].Data["order_id"])
}

func TestGetOrderFallsBackToTrackingCode(t *testing.T) {
	uc, orderRepo, _, _, _, _ := newOrderFixture()
	seedOrder(orderRepo, "o1", "pending")

	order, err := uc.GetOrder(context.Background(), "sender", "SS-O1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	_, err = uc.GetOrder(context.Background(), "stranger", "o1")
	assert.Error(t, err)
}
