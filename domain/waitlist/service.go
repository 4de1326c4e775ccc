package waitlist

import (
	"context"
	"net/mail"
	"strings"

	"github.com/skill404/landing/internal/log"
	apperrors "github.com/skill404/landing/pkg/errors"
)

type WaitlistService interface {
	// Join adds email to the waitlist with a single insert.
	Join(ctx context.Context, email string) (*WaitlistEntryResponse, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository) WaitlistService {
	return &waitlistService{logger: logger, repository: repository}
}

func (s *waitlistService) Join(ctx context.Context, email string) (*WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	// Only surrounding whitespace is dropped; the address is stored as typed.
	email = strings.TrimSpace(email)
	if email == "" {
		logger.Error("Join received empty email")
		return nil, apperrors.NewInvalidRequestError("email is required", nil)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		logger.Error("Join received invalid email format", "email", email)
		return nil, apperrors.NewInvalidRequestError("invalid email format", err)
	}

	entry, err := s.repository.CreateEntry(ctx, ToWaitlistEntryModel(email))
	if err != nil {
		logger.Error("Failed to create waitlist entry", "error", err)
		return nil, err
	}

	logger.Info("Waitlist entry created", "id", entry.ID)

	response := ToWaitlistEntryResponse(entry)
	return &response, nil
}
