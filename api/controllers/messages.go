package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/api/validators"
	"github.com/locallink/locallink-backend/internal/marketplace"
	"github.com/locallink/locallink-backend/internal/messages"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type messageService interface {
	SendMessage(ctx context.Context, receiverID, content string) (*messages.Message, error)
	Conversation(ctx context.Context, otherID string) ([]messages.Message, error)
	Inbox(ctx context.Context) (*marketplace.Inbox, error)
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"max=2000"`
}

// MessagesSend appends a message from the signed-in user. Whitespace-only
// content is rejected by the message log.
func MessagesSend(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := svc.SendMessage(r.Context(), req.ReceiverID, req.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}

func MessagesContacts(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inbox, err := svc.Inbox(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inbox)
	}
}

func MessagesConversation(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		thread, err := svc.Conversation(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, thread)
	}
}
