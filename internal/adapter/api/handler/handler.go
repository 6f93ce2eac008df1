package handler

import (
	"skysend/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	orderHandler        *OrderHandler
	flightHandler       *FlightHandler
	chatHandler         *ChatHandler
	notificationHandler *NotificationHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	orderUseCase *usecase.OrderUseCase,
	flightUseCase *usecase.FlightUseCase,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	flightHandler = NewFlightHandler(flightUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetFlightHandler() *FlightHandler {
	return flightHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}
