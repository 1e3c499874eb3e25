package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type HoldType string

const (
	HoldStart  HoldType = "start"
	HoldMiddle HoldType = "hold"
	HoldFinish HoldType = "finish"
)

func (t HoldType) Valid() bool {
	switch t {
	case HoldStart, HoldMiddle, HoldFinish:
		return true
	}
	return false
}

// Hold : a marker stored as fractions of the board image's native size
type Hold struct {
	XRatio float64  `json:"xRatio"`
	YRatio float64  `json:"yRatio"`
	Type   HoldType `json:"type"`
}

func (h Hold) Validate() error {
	if !unitRatio(h.XRatio) || !unitRatio(h.YRatio) {
		return fmt.Errorf("%w: hold ratio out of range (%g, %g)", ErrInvalidInput, h.XRatio, h.YRatio)
	}
	if !h.Type.Valid() {
		return fmt.Errorf("%w: unknown hold type %q", ErrInvalidInput, h.Type)
	}
	return nil
}

// unitRatio : false for NaN, which fails every comparison
func unitRatio(v float64) bool {
	return v >= 0 && v <= 1
}

// Holds : JSONB column
type Holds []Hold

// Value : encoded as text, lib/pq would send []byte as bytea
func (h Holds) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (h *Holds) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*h = Holds{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("holds: unsupported column type")
	}
	return json.Unmarshal(data, h)
}

type Problem struct {
	UUID        string    `db:"uuid" json:"uuid"`
	BoardUUID   string    `db:"board_uuid" json:"board_uuid"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Grade       string    `db:"grade" json:"grade"`
	Holds       Holds     `db:"holds" json:"holds"`
	OwnerUUID   *string   `db:"owner_uuid" json:"owner_uuid,omitempty"`
	GuestCode   string    `db:"-" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProblemDraft : the fields a save replaces together
type ProblemDraft struct {
	Name        string
	Description string
	Grade       string
	Holds       []Hold
	GuestCode   string
}

func (d ProblemDraft) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: problem name is required", ErrInvalidInput)
	}
	if len(d.Holds) == 0 {
		return fmt.Errorf("%w: a problem needs at least one hold", ErrInvalidInput)
	}
	for _, hold := range d.Holds {
		if err := hold.Validate(); err != nil {
			return err
		}
	}
	return nil
}
