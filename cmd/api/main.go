package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"skysend/internal/adapter/api"
	"skysend/internal/adapter/api/handler"
	apimiddleware "skysend/internal/adapter/api/middleware"
	"skysend/internal/adapter/api/router"
	"skysend/internal/adapter/repository"
	"skysend/internal/infrastructure/firebase"
	"skysend/internal/infrastructure/push"
	"skysend/internal/infrastructure/ratelimit"
	"skysend/internal/infrastructure/storage"
	"skysend/internal/infrastructure/websocket"
	"skysend/internal/usecase"
	"skysend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	serviceAccountPath := ""

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(
		ctx,
		cfg.StorageBucket,
		cfg.FirebaseProject,
		serviceAccountPath,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	flightRepo := repository.NewFirestoreFlightRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)
	pushClient := push.NewExpoClient(cfg.PushEndpoint)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, notificationRepo, firebaseAuthClient)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, flightRepo, chatRepo, userRepo, notificationRepo, pushClient)
	flightUseCase := usecase.NewFlightUseCase(flightRepo, userRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, notificationRepo, pushClient, wsManager, rateLimiter, firestoreClient)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo)

	handler.Setup(authUseCase, userUseCase, orderUseCase, flightUseCase, chatUseCase, notificationUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, chatUseCase, userRepo)
	fileHandler := handler.NewFileHandler(storageClient)
	healthHandler := handler.NewHealthHandler(firestoreClient, firebaseAuthClient)

	router.Setup(e, authMiddleware, adminMiddleware, wsHandler, fileHandler, healthHandler)
	router.SetupDevRouter(e, cfg.Environment, handler.NewDevTokenHandler(firebaseAuthClient))

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
