package models

import "time"

const (
	DefaultBannerColor = "#6366f1"
	DefaultAccentColor = "#8b5cf6"
)

type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	DisplayName     *string   `json:"displayName"`
	ProfileImage    *string   `json:"profileImage"`
	BannerColor     string    `json:"bannerColor"`
	AccentColor     string    `json:"accentColor"`
	AudienceMessage *string   `json:"audienceMessage"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Creator is the public face of a user shown on unlock and download pages.
type Creator struct {
	Username        string  `json:"username"`
	DisplayName     *string `json:"displayName"`
	ProfileImage    *string `json:"profileImage"`
	BannerColor     string  `json:"bannerColor"`
	AccentColor     string  `json:"accentColor"`
	AudienceMessage *string `json:"audienceMessage"`
}

func (u *User) Creator() Creator {
	return Creator{
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		ProfileImage:    u.ProfileImage,
		BannerColor:     u.BannerColor,
		AccentColor:     u.AccentColor,
		AudienceMessage: u.AudienceMessage,
	}
}

// ProfileUpdate carries optional profile changes; nil fields are left as is.
type ProfileUpdate struct {
	Username        *string `json:"username,omitempty"`
	DisplayName     *string `json:"displayName,omitempty"`
	ProfileImage    *string `json:"profileImage,omitempty"`
	BannerColor     *string `json:"bannerColor,omitempty"`
	AccentColor     *string `json:"accentColor,omitempty"`
	AudienceMessage *string `json:"audienceMessage,omitempty"`
}
