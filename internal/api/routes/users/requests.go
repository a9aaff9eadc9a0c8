package users

import (
	"errors"
	"strconv"
)

type userID string

func (u userID) Validate() error {
	v, err := strconv.ParseInt(string(u), 10, 64)
	if err != nil {
		return errors.New("expected an integer")
	}
	if v < 0 {
		return errors.New("user id should be non-negative")
	}
	return nil
}

func (u userID) Int64() int64 {
	v, _ := strconv.ParseInt(string(u), 10, 64)
	return v
}

type RegisterUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}
