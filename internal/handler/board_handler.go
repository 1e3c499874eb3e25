package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"wallboard/internal/boardlist"
	"wallboard/internal/model"
	"wallboard/internal/model/requestresponse"
	"wallboard/internal/ports"
	"wallboard/internal/realtime"
	"wallboard/internal/security"
	"wallboard/internal/util"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BoardHandler struct {
	ports.BoardService
	access         ports.AccessService
	subscriber     realtime.Subscriber
	maxUploadBytes int64
	timeout        time.Duration
}

func NewBoardHandler(
	boardService ports.BoardService,
	accessService ports.AccessService,
	subscriber realtime.Subscriber,
	maxUploadBytes int64,
	timeout time.Duration,
) *BoardHandler {
	return &BoardHandler{
		BoardService:   boardService,
		access:         accessService,
		subscriber:     subscriber,
		maxUploadBytes: maxUploadBytes,
		timeout:        timeout,
	}
}

// UploadBoard godoc
// @Summary Upload a wall photo as a new board
// @Description Stores the image, records its native size and makes the caller the owner.
// @Tags Boards
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Board name"
// @Param file formData file true "Board image (jpeg, png, gif or webp)"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.BoardResponse
// @Failure 400 {object} requestresponse.ErrorDetail
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards [post]
func (h *BoardHandler) UploadBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		util.HandleError(w, "malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "file is missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.HandleError(w, "could not read file", http.StatusBadRequest)
		return
	}

	board, err := h.BoardService.UploadBoard(ctx, model.BoardUpload{
		Name:     r.FormValue("name"),
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.BoardResponseFromModel(board))
}

// ListOwnedBoards godoc
// @Summary Boards the caller owns, newest first
// @Tags Boards
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListBoardsResponse
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards [get]
func (h *BoardHandler) ListOwnedBoards(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	boards, err := h.BoardService.ListOwned(r.Context(), claims.UserUUID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListBoardsResponseFromModel(boards))
}

// ListSharedBoards godoc
// @Summary Boards shared with the caller
// @Description Boards that cannot be read any more are left out.
// @Tags Boards
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListBoardsResponse
// @Failure 401 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards/shared [get]
func (h *BoardHandler) ListSharedBoards(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	refs, err := h.BoardService.ListSharedRefs(r.Context(), claims.UserUUID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	boards := boardlist.ResolveShared(r.Context(), h.BoardService, refs)
	util.WriteJSON(w, http.StatusOK, requestresponse.ListBoardsResponseFromModel(boards))
}

// StreamBoards godoc
// @Summary Live owned and shared board lists
// @Description Server-Sent Events. Each "boards" event carries one section's complete list. The first non-empty owned list names a board to open.
// @Tags Boards
// @Produce text/event-stream
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} boardlist.Update
// @Failure 401 {object} requestresponse.ErrorDetail
// @Router /api/boards/stream [get]
func (h *BoardHandler) StreamBoards(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	if claims.Anonymous {
		util.HandleServiceError(w, model.ErrUnauthenticated)
		return
	}

	stream, ok := openEventStream(w)
	if !ok {
		util.HandleError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	session := boardlist.Open(r.Context(), claims.UserUUID, h.BoardService, h.subscriber)
	defer session.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			stream.ping()
		case update, ok := <-session.Updates():
			if !ok {
				return
			}
			stream.send("boards", update)
		}
	}
}

// GetBoard godoc
// @Summary Board metadata
// @Description Anyone holding the board id can read it.
// @Tags Boards
// @Produce json
// @Param board_id path string true "Board UUID"
// @Success 200 {object} requestresponse.BoardResponse
// @Failure 404 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id} [get]
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.BoardService.GetBoard(r.Context(), chi.URLParam(r, "board_id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.BoardResponseFromModel(board))
}

// GetBoardAccess godoc
// @Summary The caller's standing on a board
// @Description Owner, grant level, or the level of a guest code sent in X-Guest-Code.
// @Tags Boards
// @Produce json
// @Param board_id path string true "Board UUID"
// @Param X-Guest-Code header string false "Redeemed access code"
// @Success 200 {object} requestresponse.BoardAccessResponse
// @Failure 404 {object} requestresponse.ErrorDetail
// @Failure 500 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/access [get]
func (h *BoardHandler) GetBoardAccess(w http.ResponseWriter, r *http.Request) {
	standing, err := h.access.AccessLevel(r.Context(), chi.URLParam(r, "board_id"), guestCode(r))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.BoardAccessResponse{Response: *standing})
}

// StreamBoardEvents godoc
// @Summary Live change notices for one board
// @Description Server-Sent Events named "problems" or "users" whenever the board's problems or sharing change. Clients re-query on each.
// @Tags Boards
// @Produce text/event-stream
// @Param board_id path string true "Board UUID"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} requestresponse.ErrorDetail
// @Router /api/boards/{board_id}/events [get]
func (h *BoardHandler) StreamBoardEvents(w http.ResponseWriter, r *http.Request) {
	boardUUID := chi.URLParam(r, "board_id")
	if _, err := h.BoardService.GetBoard(r.Context(), boardUUID); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	// subscribed before the headers go out, so nothing after the client sees 200 is missed
	problems := h.subscriber.Subscribe(realtime.ProblemsTopic(boardUUID))
	defer problems.Close()
	users := h.subscriber.Subscribe(realtime.BoardUsersTopic(boardUUID))
	defer users.Close()

	stream, ok := openEventStream(w)
	if !ok {
		util.HandleError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	log := zap.L().With(zap.String("component", "BoardEvents"), zap.String("board_uuid", boardUUID))
	log.Debug("stream opened")
	defer log.Debug("stream closed")

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			stream.ping()
		case <-problems.C:
			stream.send("problems", map[string]string{"board_id": boardUUID})
		case <-users.C:
			stream.send("users", map[string]string{"board_id": boardUUID})
		}
	}
}
