package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/internal/infrastructure/metrics"
	"skysend/internal/infrastructure/push"
	"skysend/pkg/errors"
)

// validOrderTransitions is the allowed status graph. Delivered and cancelled
// are terminal.
var validOrderTransitions = map[string][]string{
	"pending":    {"matched", "cancelled"},
	"matched":    {"in_transit", "cancelled"},
	"in_transit": {"delivered"},
}

type OrderUseCase struct {
	orderRepo        repository.OrderRepository
	flightRepo       repository.FlightRepository
	chatRepo         repository.ChatRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	pushSender       PushSender
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	flightRepo repository.FlightRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	pushSender PushSender,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:        orderRepo,
		flightRepo:       flightRepo,
		chatRepo:         chatRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		pushSender:       pushSender,
	}
}

type CreateOrderInput struct {
	ItemType           string
	ItemDescription    string
	WeightKg           float64
	Reward             float64
	OriginAirport      string
	DestinationAirport string
}

func (uc *OrderUseCase) CreateOrder(ctx context.Context, senderID string, input CreateOrderInput) (*entity.Order, error) {
	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	if sender.VerificationStatus != "verified" {
		return nil, errors.Forbidden("Identity verification required before creating orders", nil)
	}

	now := time.Now()
	order := &entity.Order{
		ID:                 uuid.New().String(),
		TrackingCode:       newTrackingCode(),
		SenderID:           senderID,
		Status:             "pending",
		ItemType:           input.ItemType,
		ItemDescription:    input.ItemDescription,
		WeightKg:           input.WeightKg,
		Reward:             input.Reward,
		OriginAirport:      strings.ToUpper(input.OriginAirport),
		DestinationAirport: strings.ToUpper(input.DestinationAirport),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, errors.Internal("Failed to create order", err)
	}

	return order, nil
}

func newTrackingCode() string {
	return "SS-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

// GetOrder looks up by document id first, then tracking code. Only the
// sender or the courier may view an order.
func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, idOrCode string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, idOrCode)
	if err != nil {
		order, err = uc.orderRepo.GetByTrackingCode(ctx, idOrCode)
		if err != nil {
			return nil, errors.NotFound("Order", err)
		}
	}

	if userID != order.SenderID && userID != order.CourierID {
		return nil, errors.Forbidden("Not a participant of this order", nil)
	}

	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, userID, status string, limit, offset int) ([]*entity.Order, int64, error) {
	orders, total, err := uc.orderRepo.ListByUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list orders", err)
	}
	return orders, total, nil
}

// AcceptOrder matches a pending order to a courier's flight. The chat is
// created (or reused for the pair) server-side and linked to the order.
func (uc *OrderUseCase) AcceptOrder(ctx context.Context, courierID, orderID, flightID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFound("Order", err)
	}
	if order.Status != "pending" {
		return nil, errors.BadRequest("Order is not open for matching", nil)
	}
	if order.SenderID == courierID {
		return nil, errors.BadRequest("Cannot courier your own order", nil)
	}

	flight, err := uc.flightRepo.GetByID(ctx, flightID)
	if err != nil {
		return nil, errors.NotFound("Flight", err)
	}
	if flight.CourierID != courierID {
		return nil, errors.Forbidden("Flight belongs to a different courier", nil)
	}
	if flight.Status != "open" {
		return nil, errors.BadRequest("Flight is not open", nil)
	}
	if flight.OriginAirport != order.OriginAirport || flight.DestinationAirport != order.DestinationAirport {
		return nil, errors.BadRequest("Flight route does not match the order route", nil)
	}

	courier, err := uc.userRepo.GetByID(ctx, courierID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	if courier.VerificationStatus != "verified" {
		return nil, errors.Forbidden("Identity verification required before accepting orders", nil)
	}

	chat, err := uc.attachChat(ctx, order, courierID)
	if err != nil {
		return nil, err
	}

	order.CourierID = courierID
	order.FlightID = flightID
	order.ChatID = chat.ID
	order.Status = "matched"
	order.UpdatedAt = time.Now()

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, errors.Internal("Failed to update order", err)
	}

	uc.notifyStatus(ctx, order, order.SenderID, "Order matched",
		fmt.Sprintf("%s will carry your %s on flight %s.", courier.Username, order.ItemType, flight.FlightNumber))

	return order, nil
}

// attachChat reuses an existing chat between the pair when one exists,
// appending the order id, and otherwise creates a fresh chat document.
func (uc *OrderUseCase) attachChat(ctx context.Context, order *entity.Order, courierID string) (*entity.Chat, error) {
	chats, _, err := uc.chatRepo.ListByUserID(ctx, order.SenderID, 0, 0)
	if err == nil {
		for _, chat := range chats {
			for _, p := range chat.Participants {
				if p == courierID {
					chat.OrderIDs = appendUnique(chat.OrderIDs, order.ID)
					chat.UpdatedAt = time.Now()
					if err := uc.chatRepo.Update(ctx, chat); err != nil {
						return nil, errors.Internal("Failed to link order to chat", err)
					}
					return chat, nil
				}
			}
		}
	}

	now := time.Now()
	chat := &entity.Chat{
		ID:            uuid.New().String(),
		Participants:  []string{order.SenderID, courierID},
		OrderIDs:      []string{order.ID},
		LastMessageAt: now,
		UnreadCount:   map[string]int{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, errors.Internal("Failed to create chat", err)
	}

	return chat, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// UpdateStatus advances the order along the transition graph. Couriers move
// matched orders to in_transit and delivered; either party may cancel before
// the item is in transit.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, userID, orderID, newStatus string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFound("Order", err)
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, errors.BadRequest(
			fmt.Sprintf("Cannot move order from %s to %s", order.Status, newStatus), nil)
	}

	switch newStatus {
	case "in_transit", "delivered":
		if userID != order.CourierID {
			return nil, errors.Forbidden("Only the courier can update transit status", nil)
		}
	case "cancelled":
		if userID != order.SenderID && userID != order.CourierID {
			return nil, errors.Forbidden("Not a participant of this order", nil)
		}
	default:
		return nil, errors.BadRequest("Unsupported status", nil)
	}

	order.Status = newStatus
	order.UpdatedAt = time.Now()

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, errors.Internal("Failed to update order", err)
	}

	// Notify the counterpart of the actor
	recipient := order.SenderID
	if userID == order.SenderID {
		recipient = order.CourierID
	}
	if recipient != "" {
		uc.notifyStatus(ctx, order, recipient, "Order "+strings.ReplaceAll(newStatus, "_", " "),
			fmt.Sprintf("Order %s is now %s.", order.TrackingCode, strings.ReplaceAll(newStatus, "_", " ")))
	}

	return order, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range validOrderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// notifyStatus writes an order_status notification and sends a best-effort
// push. Failures are logged and never fail the status change itself.
func (uc *OrderUseCase) notifyStatus(ctx context.Context, order *entity.Order, recipientID, title, body string) {
	notification := &entity.Notification{
		ID:     uuid.New().String(),
		UserID: recipientID,
		Type:   entity.NotificationTypeOrderStatus,
		Title:  title,
		Body:   body,
		Data: map[string]interface{}{
			"order_id":      order.ID,
			"tracking_code": order.TrackingCode,
			"status":        order.Status,
		},
		CreatedAt: time.Now(),
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("notifyStatus: failed to write notification for %s: %v", recipientID, err)
	} else {
		metrics.NotificationsCreated.Inc()
	}

	recipient, err := uc.userRepo.GetByID(ctx, recipientID)
	if err != nil || recipient.ExpoPushToken == "" {
		return
	}

	pushErr := uc.pushSender.Send(ctx, push.Message{
		To:    recipient.ExpoPushToken,
		Title: title,
		Body:  body,
		Data: map[string]interface{}{
			"type":     entity.NotificationTypeOrderStatus,
			"order_id": order.ID,
		},
	})
	if pushErr != nil {
		log.Printf("notifyStatus: push delivery to %s failed: %v", recipientID, pushErr)
	}
}
