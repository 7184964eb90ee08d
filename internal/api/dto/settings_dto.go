package dto

// UpdateSettingsRequest payload; omitted fields are left unchanged.
type UpdateSettingsRequest struct {
	Theme           *string         `json:"theme"`
	FontSize        *string         `json:"fontSize"`
	DefaultPriority *string         `json:"defaultPriority"`
	Notifications   map[string]bool `json:"notifications"`
}
