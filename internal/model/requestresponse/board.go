package requestresponse

import (
	"time"

	"wallboard/internal/model"
)

// BoardResponse : board metadata for JSON responses
type BoardResponse struct {
	UUID        string `json:"id" example:"5f1d7c62-8a9e-4b1a-9d3c-0e6f2b7a1c44"`
	Name        string `json:"name" example:"Spray wall"`
	ImageURL    string `json:"image_url" example:"https://cdn.example.com/layouts/u1/5f1d.jpg"`
	ImageWidth  int    `json:"image_width" example:"4032"`
	ImageHeight int    `json:"image_height" example:"3024"`
	OwnerUUID   string `json:"owner_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	CreatedAt   string `json:"created_at" example:"2025-08-23T12:34:56Z"`
}

func BoardResponseFromModel(board *model.Board) BoardResponse {
	return BoardResponse{
		UUID:        board.UUID,
		Name:        board.Name,
		ImageURL:    board.ImageURL,
		ImageWidth:  board.ImageWidth,
		ImageHeight: board.ImageHeight,
		OwnerUUID:   board.OwnerUUID,
		CreatedAt:   board.CreatedAt.Format(time.RFC3339),
	}
}

// ListBoardsResponse : owned or shared boards
type ListBoardsResponse struct {
	Data struct {
		Boards []BoardResponse `json:"boards"`
	} `json:"data"`
	Count int `json:"count" example:"2"`
}

func ListBoardsResponseFromModel(boards []model.Board) ListBoardsResponse {
	var resp ListBoardsResponse
	resp.Data.Boards = make([]BoardResponse, 0, len(boards))
	for i := range boards {
		resp.Data.Boards = append(resp.Data.Boards, BoardResponseFromModel(&boards[i]))
	}
	resp.Count = len(boards)
	return resp
}

// BoardAccessResponse : the caller's standing on a board
type BoardAccessResponse struct {
	Response model.BoardAccess `json:"response"`
}
