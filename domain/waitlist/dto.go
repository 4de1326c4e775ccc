package waitlist

import (
	"github.com/skill404/landing/internal/models"
	"github.com/skill404/landing/pkg/constants"
)

type JoinWaitlistRequest struct {
	Email string `json:"email" form:"email" binding:"required,email,max=255"`
}

type WaitlistEntryResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func ToWaitlistEntryModel(email string) *models.WaitlistEntry {
	return &models.WaitlistEntry{Email: email}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:        entry.ID,
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
