package items

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *Item) ToResponse() ItemResponse {
	return ItemResponse{
		ID:          i.ID.String(),
		Title:       i.Title,
		Description: i.Description,
		OwnerID:     i.OwnerID.String(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// CreateItemRequest represents the item creation payload
type CreateItemRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateItemRequest carries a partial update; nil fields are left untouched.
type UpdateItemRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ListQuery is the skip/limit pagination window for item listings.
type ListQuery struct {
	Skip  int `form:"skip,default=0" validate:"min=0"`
	Limit int `form:"limit,default=100" validate:"min=1,max=1000"`
}
