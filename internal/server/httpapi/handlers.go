package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes leaves room for an embedded photo data URL.
const maxBodyBytes = 8 << 20

// RecoveryMessage is the only answer POST /auth/recover ever gives.
const RecoveryMessage = "If this number is registered, the member ID has been sent to it."

type Handler struct {
	members   MemberService
	auth      AuthService
	cards     CardService
	assistant Assistant
	metrics   *Metrics
	logger    logging.Logger
}

func NewHandler(ms MemberService, as AuthService, cs CardService, a Assistant, metrics *Metrics, logger logging.Logger) *Handler {
	return &Handler{
		members:   ms,
		auth:      as,
		cards:     cs,
		assistant: a,
		metrics:   metrics,
		logger:    logger.With("module", "httpapi"),
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", common.ErrorValidation, err)
	}
	return nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}

// ListMembers handles GET /users.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	list, err := h.members.List(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetMember handles GET /users/{id}.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.members.Get(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// CreateMember handles POST /users.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var in domain.Member
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.members.Create(r.Context(), &in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/users/"+m.ID)
	writeJSON(w, http.StatusCreated, m)
}

// ReplaceMember handles PUT /users/{id}.
func (h *Handler) ReplaceMember(w http.ResponseWriter, r *http.Request) {
	var in domain.Member
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.members.Replace(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "id"), &in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /users/{id}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.members.SetStatus(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "id"), domain.Status(in.Status))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Member       *domain.Member `json:"member"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	m, pair, err := h.auth.Login(r.Context(), strings.TrimSpace(in.Identifier), in.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Member: m, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	pair, err := h.auth.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type recoverRequest struct {
	Phone string `json:"phone"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Recover handles POST /auth/recover. The identifier is never echoed.
func (h *Handler) Recover(w http.ResponseWriter, r *http.Request) {
	var in recoverRequest
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		h.fail(w, r, fmt.Errorf("%w: phone is required", common.ErrorValidation))
		return
	}
	if err := h.auth.RecoverID(r.Context(), phone); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageResponse{Message: RecoveryMessage})
}

// Card handles GET /users/{id}/card.{format}.
func (h *Handler) Card(w http.ResponseWriter, r *http.Request) {
	format, err := card.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", common.ErrorNotFound, err))
		return
	}

	art, err := h.cards.Export(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "id"), format)
	h.metrics.observeCard(string(format), err)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// PublishCard handles POST /users/{id}/card/publish.
func (h *Handler) PublishCard(w http.ResponseWriter, r *http.Request) {
	pub, err := h.cards.Publish(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "id"))
	h.metrics.observeCard("published", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pub)
}

type assistantRequest struct {
	Topic string `json:"topic"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}

// Ask handles POST /assistant. It answers 200 even when generation failed;
// the reply is then one of the fallback lines.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var in assistantRequest
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		h.fail(w, r, fmt.Errorf("%w: topic is required", common.ErrorValidation))
		return
	}
	writeJSON(w, http.StatusOK, assistantResponse{Reply: h.assistant.Ask(r.Context(), topic)})
}
