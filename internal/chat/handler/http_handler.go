package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"venuehub/internal/common"
	"venuehub/internal/messaging"
)

const maxBodyBytes = 64 << 10

// HTTPHandler serves the conversation API under /api/v1.
type HTTPHandler struct {
	service ConversationService
	log     *zap.Logger
}

func NewHTTPHandler(service ConversationService, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{service: service, log: logger}
}

func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/conversations", h.ListConversations).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{counterpartyID}/messages", h.GetThread).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{counterpartyID}/read", h.MarkThreadRead).Methods(http.MethodPost)
	api.HandleFunc("/messages", h.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages/admin", h.SendAdminMessage).Methods(http.MethodPost)
	api.HandleFunc("/unread-count", h.GetUnreadCount).Methods(http.MethodGet)
}

// ListConversations handles GET /conversations?mode=inbox|threads&unread=true&q=.
func (h *HTTPHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mode, err := messaging.ParseMode(query.Get("mode"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	unreadOnly := false
	if raw := query.Get("unread"); raw != "" {
		unreadOnly, err = strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "unread must be a boolean"})
			return
		}
	}

	convs, err := h.service.Conversations(r.Context(), common.ViewerFromContext(r.Context()), mode, messaging.Options{
		UnreadOnly: unreadOnly,
		Keyword:    query.Get("q"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListConversationsResponse{Conversations: convs})
}

func (h *HTTPHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.Thread(r.Context(), common.ViewerFromContext(r.Context()), mux.Vars(r)["counterpartyID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GetThreadResponse{Messages: msgs})
}

func (h *HTTPHandler) MarkThreadRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkThreadRead(r.Context(), common.ViewerFromContext(r.Context()), mux.Vars(r)["counterpartyID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MarkThreadReadResponse{Updated: n})
}

func (h *HTTPHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := h.service.Send(r.Context(), common.ViewerFromContext(r.Context()), req.ReceiverID, req.Content)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SendMessageResponse{Message: msg})
}

func (h *HTTPHandler) SendAdminMessage(w http.ResponseWriter, r *http.Request) {
	var req SendAdminMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := h.service.SendAdminMessage(r.Context(), common.ViewerFromContext(r.Context()), req.AdminID, req.Content)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SendMessageResponse{Message: msg})
}

func (h *HTTPHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.UnreadCount(r.Context(), common.ViewerFromContext(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GetUnreadCountResponse{Count: n})
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "venuehub-inbox"})
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	_, code := classify(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.log.Error("conversation request failed", zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, code, errorBody{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	common.WriteJSON(w, code, v)
}
