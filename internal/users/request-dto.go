package users

// UpdateUserRequest carries a partial update; nil fields are left untouched.
// The superuser flag is deliberately absent: privilege is never
// client-settable through this endpoint.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	IsActive *bool   `json:"is_active"`
}

// ListQuery is the skip/limit pagination window for user listings.
type ListQuery struct {
	Skip  int `form:"skip,default=0" validate:"min=0"`
	Limit int `form:"limit,default=100" validate:"min=1,max=1000"`
}
