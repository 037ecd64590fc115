package model

// Group is a named set of users.
type Group struct {
	Base
	Name string `json:"name" db:"name"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}
