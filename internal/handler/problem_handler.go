package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"wallboard/internal/canvas"
	"wallboard/internal/model"
	"wallboard/internal/model/requestresponse"
	"wallboard/internal/placement"
	"wallboard/internal/ports"
	"wallboard/internal/util"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	ports.ProblemService
	boards    ports.BoardReader
	maxPixels int64
}

// NewProblemHandler : maxPixels bounds overlay rendering, zero means canvas.DefaultMaxPixels
func NewProblemHandler(problemService ports.ProblemService, boards ports.BoardReader, maxPixels int64) *ProblemHandler {
	return &ProblemHandler{problemService, boards, maxPixels}
}

// ListProblems godoc
// @Summary Problems on a board
// @Description Newest first by default, sort=grade orders by V grade with ungraded problems first.
// @Tags Problems
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param sort query string false "created or grade"
// @Success 200 {object} requestresponse.ListProblemsResponse
// @Failure 404 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/problems [get]
func (h *ProblemHandler) ListProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.ProblemService.List(r.Context(), chi.URLParam(r, "board_id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	if r.URL.Query().Get("sort") == "grade" {
		placement.SortProblemsByGrade(problems)
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListProblemsResponseFromModel(problems))
}

// GetProblem godoc
// @Summary One problem
// @Tags Problems
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param problem_id path string true "Problem UUID"
// @Success 200 {object} requestresponse.ProblemResponse
// @Failure 404 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/problems/{problem_id} [get]
func (h *ProblemHandler) GetProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.ProblemService.Get(r.Context(), chi.URLParam(r, "board_id"), chi.URLParam(r, "problem_id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ProblemResponseFromModel(problem))
}

// CreateProblem godoc
// @Summary Save a new problem
// @Description Needs edit access: owner, an edit grant, or an edit guest code in guest_code.
// @Tags Problems
// @Accept json
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param body body requestresponse.SaveProblemRequest true "Problem"
// @Success 201 {object} requestresponse.ProblemResponse
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 403 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/problems [post]
func (h *ProblemHandler) CreateProblem(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SaveProblemRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}
	if req.GuestCode == "" {
		req.GuestCode = guestCode(r)
	}

	problem, err := h.ProblemService.Create(r.Context(), chi.URLParam(r, "board_id"), req.Draft())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.ProblemResponseFromModel(problem))
}

// UpdateProblem godoc
// @Summary Replace a problem's fields and holds
// @Description Last write wins.
// @Tags Problems
// @Accept json
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param problem_id path string true "Problem UUID"
// @Param body body requestresponse.SaveProblemRequest true "Problem"
// @Success 200 {object} requestresponse.ProblemResponse
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 403 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/problems/{problem_id} [put]
func (h *ProblemHandler) UpdateProblem(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SaveProblemRequest
	if err := decodeRequest(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}
	if req.GuestCode == "" {
		req.GuestCode = guestCode(r)
	}

	problem, err := h.ProblemService.Update(r.Context(), chi.URLParam(r, "board_id"), chi.URLParam(r, "problem_id"), req.Draft())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ProblemResponseFromModel(problem))
}

// DeleteProblem godoc
// @Summary Delete a problem
// @Description Board owner only.
// @Tags Problems
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param problem_id path string true "Problem UUID"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 403 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/problems/{problem_id} [delete]
func (h *ProblemHandler) DeleteProblem(w http.ResponseWriter, r *http.Request) {
	if err := h.ProblemService.Delete(r.Context(), chi.URLParam(r, "board_id"), chi.URLParam(r, "problem_id")); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "deleted"})
}

// GetOverlay godoc
// @Summary Hold markers as a transparent PNG
// @Description Native board size. display_width keeps markers at 10 px on screen.
// @Tags Problems
// @Produce png
// @Param board_id path string true "Board UUID"
// @Param problem_id path string true "Problem UUID"
// @Param display_width query number false "Width the board is displayed at"
// @Success 200 {file} binary
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 404 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/problems/{problem_id}/overlay.png [get]
func (h *ProblemHandler) GetOverlay(w http.ResponseWriter, r *http.Request) {
	boardUUID := chi.URLParam(r, "board_id")

	var displayWidth float64
	if raw := r.URL.Query().Get("display_width"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			util.HandleError(w, "display_width must be a positive number", http.StatusBadRequest)
			return
		}
		displayWidth = parsed
	}

	board, err := h.boards.GetBoard(r.Context(), boardUUID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	problem, err := h.ProblemService.Get(r.Context(), boardUUID, chi.URLParam(r, "problem_id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	native := canvas.Size{Width: float64(board.ImageWidth), Height: float64(board.ImageHeight)}
	var buf bytes.Buffer
	if err := canvas.RenderOverlay(&buf, native, displayWidth, []model.Hold(problem.Holds), h.maxPixels); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
