package handler

import (
	"net/http"

	"wallboard/internal/model"
	"wallboard/internal/model/requestresponse"
	"wallboard/internal/ports"
	"wallboard/internal/util"

	"github.com/go-chi/chi/v5"
)

type AccessHandler struct {
	ports.AccessService
}

func NewAccessHandler(accessService ports.AccessService) *AccessHandler {
	return &AccessHandler{accessService}
}

// ListGrants godoc
// @Summary Users a board is shared with
// @Tags Permissions
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListGrantsResponse
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 403 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/permissions [get]
func (h *AccessHandler) ListGrants(w http.ResponseWriter, r *http.Request) {
	grants, err := h.AccessService.ListGrants(r.Context(), chi.URLParam(r, "board_id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	var resp requestresponse.ListGrantsResponse
	resp.Data.Grants = grants
	resp.Count = len(grants)
	util.WriteJSON(w, http.StatusOK, resp)
}

// GrantAccess godoc
// @Summary Share a board with a registered user
// @Description Owner only. A second grant for the same user replaces the level.
// @Tags Permissions
// @Accept json
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param body body requestresponse.GrantRequest true "Grantee and level"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GrantResponse
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 403 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail "Board or user not found"
// @Router /api/boards/{board_id}/permissions [post]
func (h *AccessHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.GrantRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	grant, err := h.AccessService.GrantByEmail(r.Context(), chi.URLParam(r, "board_id"), req.Email, model.AccessLevel(req.Level))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.GrantResponse{Response: *grant})
}

// RevokeAccess godoc
// @Summary Remove a user's grant
// @Tags Permissions
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param user_uuid path string true "Grantee UUID"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 403 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/permissions/{user_uuid} [delete]
func (h *AccessHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	if err := h.AccessService.RevokeGrant(r.Context(), chi.URLParam(r, "board_id"), chi.URLParam(r, "user_uuid")); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "revoked"})
}

// CreateAccessCode godoc
// @Summary Generate a shareable access code
// @Description Owner only. The code expires after the configured lifetime.
// @Tags Access codes
// @Accept json
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param body body requestresponse.CreateAccessCodeRequest true "Level"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.AccessCodeResponse
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 403 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/codes [post]
func (h *AccessHandler) CreateAccessCode(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.CreateAccessCodeRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	code, err := h.AccessService.CreateAccessCode(r.Context(), chi.URLParam(r, "board_id"), model.AccessLevel(req.Level))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.AccessCodeResponse{Response: *code})
}

// RedeemCode godoc
// @Summary Look up the board and level behind a code
// @Description Nothing is stored. Guests keep the code and send it with later requests.
// @Tags Access codes
// @Produce json
// @Param code path string true "Access code"
// @Success 200 {object} requestresponse.RedeemCodeResponse
// @Failure 404 {object} requestresponse.ErrorDetail
// @Failure 410 {object} requestresponse.ErrorDetail "Expired"
// @Router /api/codes/{code}/redeem [post]
func (h *AccessHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	redeemed, err := h.AccessService.RedeemCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.RedeemCodeResponse{Response: *redeemed})
}

// PromoteGuest godoc
// @Summary Keep a guest code's access after signing in
// @Description Writes a grant for the caller tagged with the code. An existing edit grant is kept.
// @Tags Access codes
// @Accept json
// @Produce json
// @Param body body requestresponse.PromoteGuestRequest true "Code held as a guest"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GrantResponse
// @Success 204 "Caller owns the board"
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Failure 410 {object} requestresponse.ErrorDetail
// @Router /api/codes/promote [post]
func (h *AccessHandler) PromoteGuest(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.PromoteGuestRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	grant, err := h.AccessService.PromoteGuest(r.Context(), req.Code)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	if grant == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.GrantResponse{Response: *grant})
}
