package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"wallboard/internal/model"
)

type validatable interface {
	Validate() error
}

// decodeRequest : JSON body into req, then req.Validate
func decodeRequest(r *http.Request, req validatable) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", model.ErrInvalidInput, err)
	}
	return req.Validate()
}

// guestCode : code from the X-Guest-Code header or the code query parameter
func guestCode(r *http.Request) string {
	if code := r.Header.Get("X-Guest-Code"); code != "" {
		return code
	}
	return r.URL.Query().Get("code")
}
