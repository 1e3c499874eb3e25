package requestresponse

import (
	"wallboard/internal/model"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var levelRule = validation.In(string(model.AccessRead), string(model.AccessEdit))

// GrantRequest : share a board with a registered user by email
type GrantRequest struct {
	Email string `json:"email" example:"friend@example.com"`
	Level string `json:"level" example:"edit"`
}

func (req *GrantRequest) Validate() error {
	return invalid(validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Level, validation.Required, levelRule),
	))
}

// CreateAccessCodeRequest : level granted by the new code
type CreateAccessCodeRequest struct {
	Level string `json:"level" example:"read"`
}

func (req *CreateAccessCodeRequest) Validate() error {
	return invalid(validation.ValidateStruct(req, validation.Field(&req.Level, validation.Required, levelRule)))
}

// PromoteGuestRequest : turn a redeemed code into a durable grant for the caller
type PromoteGuestRequest struct {
	Code string `json:"code" example:"K7QX2M"`
}

func (req *PromoteGuestRequest) Validate() error {
	return invalid(validation.ValidateStruct(req, validation.Field(&req.Code, validation.Required, validation.Length(4, 32))))
}

// AccessCodeResponse : a freshly created code
type AccessCodeResponse struct {
	Response model.AccessCode `json:"response"`
}

// RedeemCodeResponse : board and level behind a code
type RedeemCodeResponse struct {
	Response model.RedeemedCode `json:"response"`
}

// GrantResponse : a stored grant
type GrantResponse struct {
	Response model.PermissionGrant `json:"response"`
}

// ListGrantsResponse : everyone a board is shared with
type ListGrantsResponse struct {
	Data struct {
		Grants []model.PermissionGrant `json:"grants"`
	} `json:"data"`
	Count int `json:"count" example:"1"`
}
