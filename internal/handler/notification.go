package handler

import (
	"errors"
	"net/http"
	"strconv"

	"social_auth/internal/request"
	"social_auth/internal/usecase"
	"social_auth/middleware"
	"social_auth/utils"

	"github.com/rs/zerolog/log"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notificationUsecase}
}

// Delete expects request.ValidateDeleteNotification and the JWT middleware
// to run first.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return
	}
	input, ok := request.DeleteNotificationFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if input.UserID != strconv.FormatUint(uint64(claims.UserID), 10) {
		utils.WriteAPIResponse(w, utils.APIResponse(nil, http.StatusForbidden, utils.Translate(r, "notification.forbidden")))
		return
	}

	err := h.notificationUsecase.Delete(r.Context(), input.UserID, input.NotificationID)
	if errors.Is(err, usecase.ErrNotificationNotFound) {
		utils.WriteAPIResponse(w, utils.APIResponse(nil, http.StatusNotFound, utils.Translate(r, "notification.not_found")))
		return
	}
	if err != nil {
		log.Error().Err(err).Str("notification_id", input.NotificationID).Msg("Failed to delete notification")
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.WriteAPIResponse(w, utils.APIResponse(nil, http.StatusOK, utils.Translate(r, "notification.deleted")))
}
