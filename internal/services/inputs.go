package services

import (
	"recommread/internal/utils"

	"github.com/jellydator/validation"
)

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in SignupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, notBlank, validation.RuneLength(1, 64)),
		validation.Field(&in.Email, validation.Required, notBlank, validation.RuneLength(1, 120)),
		validation.Field(&in.Password, validation.Required, validation.Length(1, utils.MaxPasswordBytes)),
	)
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

type StoryInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in StoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, notBlank, validation.RuneLength(1, 100)),
		validation.Field(&in.Content, validation.Required, notBlank),
	)
}

// StoryPatch is a partial update. Empty fields keep their stored value.
type StoryPatch struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in StoryPatch) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.RuneLength(0, 100)),
	)
}
