package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"subcast/internal/model"
)

type BroadcastService interface {
	Broadcast(ctx context.Context, key string, message string) (*model.BroadcastResult, error)
}

type BroadcastParams struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// AdminBroadcast is the only boundary that surfaces failures to the caller:
// 401 on a key mismatch, 400 on a missing message.
func AdminBroadcast(broadcaster BroadcastService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &BroadcastParams{}
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Message required"})
		}

		result, err := broadcaster.Broadcast(c.Request().Context(), params.Key, params.Message)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrorUnauthorized):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			case errors.Is(err, model.ErrorMessageRequired):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Message required"})
			}
			c.Logger().Errorf("broadcasting: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server_error"})
		}

		return c.JSON(http.StatusOK, echo.Map{"ok": true, "sent": result.Sent, "total": result.Total})
	}
}

func Health() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
}
