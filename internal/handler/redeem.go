package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/huntclub/hunt-api/internal/domain"
)

// Redeemer is implemented by service.RedemptionService.
type Redeemer interface {
	Redeem(ctx context.Context, req domain.RedeemRequest) (domain.Outcome, error)
}

// RedeemHandler serves POST /redeem/gift and POST /redeem/enigma.
type RedeemHandler struct {
	svc    Redeemer
	logger *slog.Logger
}

// NewRedeemHandler creates a RedeemHandler.
func NewRedeemHandler(svc Redeemer, logger *slog.Logger) *RedeemHandler {
	return &RedeemHandler{svc: svc, logger: logger}
}

type redeemBody struct {
	RecipientTeam string `json:"recipientTeam"`
	Email         string `json:"email"`
	Code          string `json:"code"`
	Answer        string `json:"answer"`
}

type redeemResponse struct {
	Status string `json:"status"`
}

// Gift handles POST /redeem/gift.
func (h *RedeemHandler) Gift(w http.ResponseWriter, r *http.Request) {
	h.redeem(w, r, domain.KindGift)
}

// Enigma handles POST /redeem/enigma.
func (h *RedeemHandler) Enigma(w http.ResponseWriter, r *http.Request) {
	h.redeem(w, r, domain.KindEnigma)
}

func (h *RedeemHandler) redeem(w http.ResponseWriter, r *http.Request, kind domain.CodeKind) {
	var body redeemBody
	if err := DecodeJSON(r, &body); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	req := domain.RedeemRequest{
		Kind:          kind,
		RecipientTeam: body.RecipientTeam,
		Email:         body.Email,
		Code:          body.Code,
	}
	if kind == domain.KindEnigma {
		req.Answer = body.Answer
	}

	outcome, err := h.svc.Redeem(r.Context(), req)
	if err != nil {
		RespondServiceError(w, r, h.logger, err)
		return
	}

	status, err := outcomeStatus(outcome)
	if err != nil {
		RespondServiceError(w, r, h.logger, domain.ErrInternal("render outcome", err))
		return
	}
	RespondJSON(w, http.StatusOK, redeemResponse{Status: status})
}

func outcomeStatus(o domain.Outcome) (string, error) {
	switch o {
	case domain.OutcomeOK,
		domain.OutcomePlayerNotExisting,
		domain.OutcomeTeamNotExisting,
		domain.OutcomeNotFound,
		domain.OutcomeBadAnswer,
		domain.OutcomeUsed:
		return o.String(), nil
	default:
		return "", fmt.Errorf("unexpected outcome %d", int(o))
	}
}
