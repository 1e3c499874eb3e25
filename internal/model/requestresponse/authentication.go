package requestresponse

import (
	"errors"
	"fmt"

	"wallboard/internal/model"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`

var (
	passwordExp        = regexp2.MustCompile(passwordRegexPattern, regexp2.None)
	errInvalidPassword = errors.New("the password must be at least 8 characters and contain a letter and a number")
)

// LoginRequest : sign-in body. Register turns an unknown email into a sign-up.
type LoginRequest struct {
	Email    string `json:"email" example:"climber@example.com"`
	Password string `json:"password" example:"Crimp1234"`
	Register bool   `json:"register" example:"false"`
}

func (req *LoginRequest) Validate() error {
	return invalid(validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	))
}

// SignUpRequest : registration body
type SignUpRequest struct {
	Email    string `json:"email" example:"climber@example.com"`
	Password string `json:"password" example:"Crimp1234"`
}

func (req *SignUpRequest) Validate() error {
	return invalid(validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.By(strongPassword)),
	))
}

func strongPassword(value interface{}) error {
	password, _ := value.(string)
	ok, err := passwordExp.MatchString(password)
	if err != nil || !ok {
		return errInvalidPassword
	}
	return nil
}

// ValidatePassword : password strength check shared with the service layer
func ValidatePassword(password string) error {
	return strongPassword(password)
}

// RefreshTokenRequest : exchange a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"sfuqwejqjoiu93e29"`
}

func (req *RefreshTokenRequest) Validate() error {
	return invalid(validation.ValidateStruct(req, validation.Field(&req.RefreshToken, validation.Required)))
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
}

// SessionResponse : identity plus tokens after sign-in, sign-up or refresh
type SessionResponse struct {
	Response SessionData `json:"response"`
}

type SessionData struct {
	UserUUID     string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Email        string `json:"email,omitempty" example:"climber@example.com"`
	Anonymous    bool   `json:"anonymous" example:"false"`
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"sfuqwejqjoiu93e29"`
}

func SessionResponseFromModel(session *model.Session) SessionResponse {
	return SessionResponse{Response: SessionData{
		UserUUID:     session.User.UUID,
		Email:        session.User.Email,
		Anonymous:    session.User.IsAnonymous,
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
	}}
}

// CurrentUserResponse : the caller's identity from the access token
type CurrentUserResponse struct {
	Response struct {
		UserUUID  string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Email     string `json:"email,omitempty" example:"climber@example.com"`
		Anonymous bool   `json:"anonymous" example:"false"`
	} `json:"response"`
}

// ErrorDetail : error body written by util.HandleError
type ErrorDetail struct {
	Error   string `json:"error" example:"Forbidden"`
	Message string `json:"message" example:"access denied"`
	Code    int    `json:"code" example:"403"`
}

// SuccessResponse : acknowledgement for writes with no payload
type SuccessResponse struct {
	Message string `json:"message" example:"ok"`
}
