package handler

import (
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/iterator"

	"skysend/internal/usecase"
)

type HealthHandler struct {
	fsClient   *firestore.Client
	authClient usecase.FirebaseAuthClient
	startedAt  time.Time
}

func NewHealthHandler(fsClient *firestore.Client, authClient usecase.FirebaseAuthClient) *HealthHandler {
	return &HealthHandler{
		fsClient:   fsClient,
		authClient: authClient,
		startedAt:  time.Now(),
	}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

// Ready verifies the Firebase backends are reachable.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"firestore": "ok",
		"auth":      "ok",
	}
	healthy := true

	if _, err := h.fsClient.Collections(ctx).Next(); err != nil && err != iterator.Done {
		checks["firestore"] = err.Error()
		healthy = false
	}

	if err := h.authClient.TestConnection(ctx); err != nil {
		checks["auth"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]interface{}{
		"status": checks,
	})
}
