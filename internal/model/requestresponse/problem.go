package requestresponse

import (
	"time"

	"wallboard/internal/model"

	validation "github.com/go-ozzo/ozzo-validation"
)

// SaveProblemRequest : full replacement of a problem's fields and holds
type SaveProblemRequest struct {
	Name        string       `json:"name" example:"Test Arete"`
	Description string       `json:"description" example:"Left hand on the arete"`
	Grade       string       `json:"grade" example:"V4+"`
	Holds       []model.Hold `json:"holds"`
	GuestCode   string       `json:"guest_code,omitempty" example:"K7QX2M"`
}

func (req *SaveProblemRequest) Validate() error {
	err := invalid(validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Grade, validation.Length(0, 16)),
		validation.Field(&req.Holds, validation.Required),
	))
	if err != nil {
		return err
	}
	for _, hold := range req.Holds {
		if err := hold.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (req *SaveProblemRequest) Draft() model.ProblemDraft {
	return model.ProblemDraft{
		Name:        req.Name,
		Description: req.Description,
		Grade:       req.Grade,
		Holds:       req.Holds,
		GuestCode:   req.GuestCode,
	}
}

// ProblemResponse : problem for JSON responses
type ProblemResponse struct {
	UUID        string       `json:"id" example:"0c8e0f4b-7f2d-4a8a-a1c9-3b2f5e6d7a11"`
	BoardUUID   string       `json:"board_id" example:"5f1d7c62-8a9e-4b1a-9d3c-0e6f2b7a1c44"`
	Name        string       `json:"name" example:"Test Arete"`
	Description string       `json:"description"`
	Grade       string       `json:"grade" example:"V4+"`
	Holds       []model.Hold `json:"holds"`
	OwnerUUID   string       `json:"owner_uuid,omitempty"`
	CreatedAt   string       `json:"created_at" example:"2025-08-23T12:34:56Z"`
}

func ProblemResponseFromModel(problem *model.Problem) ProblemResponse {
	resp := ProblemResponse{
		UUID:        problem.UUID,
		BoardUUID:   problem.BoardUUID,
		Name:        problem.Name,
		Description: problem.Description,
		Grade:       problem.Grade,
		Holds:       problem.Holds,
		CreatedAt:   problem.CreatedAt.Format(time.RFC3339),
	}
	if resp.Holds == nil {
		resp.Holds = []model.Hold{}
	}
	if problem.OwnerUUID != nil {
		resp.OwnerUUID = *problem.OwnerUUID
	}
	return resp
}

// ListProblemsResponse : problems of a board, newest first
type ListProblemsResponse struct {
	Data struct {
		Problems []ProblemResponse `json:"problems"`
	} `json:"data"`
	Count int `json:"count" example:"3"`
}

func ListProblemsResponseFromModel(problems []model.Problem) ListProblemsResponse {
	var resp ListProblemsResponse
	resp.Data.Problems = make([]ProblemResponse, 0, len(problems))
	for i := range problems {
		resp.Data.Problems = append(resp.Data.Problems, ProblemResponseFromModel(&problems[i]))
	}
	resp.Count = len(problems)
	return resp
}
