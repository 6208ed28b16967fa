package business

type UpdateBusinessRequest struct {
	DisplayName string  `json:"display_name" validate:"required,max=255"`
	PhoneNumber string  `json:"phone_number" validate:"max=32"`
	LogoID      *string `json:"logo_id"`
	BannerID    *string `json:"banner_id"`
}

type UpdateMerchantRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	AvatarID    *string `json:"avatar_id"`
}
