package model

import "time"

// Board : an uploaded wall photo. Boards are never updated or deleted after creation.
type Board struct {
	UUID        string    `db:"uuid" json:"uuid"`
	Name        string    `db:"name" json:"name"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	StoragePath string    `db:"storage_path" json:"-"`
	ImageWidth  int       `db:"image_width" json:"image_width"`
	ImageHeight int       `db:"image_height" json:"image_height"`
	OwnerUUID   string    `db:"owner_uuid" json:"owner_uuid"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// SharedBoardRef : "shared with me" pointer stored under the grantee
type SharedBoardRef struct {
	UserUUID  string    `db:"user_uuid" json:"user_uuid"`
	BoardUUID string    `db:"board_uuid" json:"board_uuid"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BoardUpload : image bytes plus the name chosen by the uploader
type BoardUpload struct {
	Name     string
	Filename string
	Data     []byte
}
