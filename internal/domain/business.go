package domain

// Business is the profile of the owner's business as shown on the account page.
type Business struct {
	ID          int64   `json:"id"`
	Slug        string  `json:"slug,omitempty"`
	DisplayName string  `json:"display_name"`
	PhoneNumber string  `json:"phone_number"`
	LogoID      *string `json:"logo_id,omitempty"`
	BannerID    *string `json:"banner_id,omitempty"`
}

func (b *Business) EntityID() int64 { return b.ID }

// Attachment is an opaque reference returned by the attachment store.
type Attachment struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
