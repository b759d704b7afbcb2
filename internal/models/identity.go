package models

// Identity is the authenticated admin acting on the content store. It is
// resolved from the session credential and stamped onto new posts.
type Identity struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// Author returns the display identity used for post bylines.
func (i *Identity) Author() Author {
	if i == nil {
		return Author{}
	}
	name := i.DisplayName
	if name == "" {
		name = i.Username
	}
	return Author{Name: name, Avatar: i.Avatar}
}
