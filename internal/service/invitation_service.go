package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"familytracker/internal/models"
	"familytracker/internal/repository"
	"familytracker/internal/utils"
)

// InvitationMailer is the slice of the email collaborator the invitation
// workflow needs.
type InvitationMailer interface {
	SendInvitationEmail(ctx context.Context, recipientEmail, senderName, familyName, token, inviteURL string, expiryDays int) (string, error)
}

// InvitationService handles the invitation lifecycle: issue, lookup, accept.
type InvitationService struct {
	invitationRepo *repository.InvitationRepository
	familyRepo     *repository.FamilyRepository
	mailer         InvitationMailer
	appBaseURL     string
	ttl            time.Duration
}

// NewInvitationService creates a new invitation service
func NewInvitationService(invitationRepo *repository.InvitationRepository, familyRepo *repository.FamilyRepository, mailer InvitationMailer, appBaseURL string, ttl time.Duration) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		familyRepo:     familyRepo,
		mailer:         mailer,
		appBaseURL:     appBaseURL,
		ttl:            ttl,
	}
}

// Issue creates (or reuses) a pending invitation for the given email and
// schedules the invitation email. If a still-redeemable invitation already
// exists for this family and email, its token is reused and the email resent,
// so the recipient always receives a link that actually works. A pending
// invitation that has aged past its TTL is marked expired and replaced with
// a fresh token.
//
// The email send is fire-and-forget: a delivery failure is logged and does
// not roll back the invitation record.
func (s *InvitationService) Issue(familyID int64, email string, invitedBy int64, familyName, senderName string) (string, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return "", err
	}
	email = utils.NormalizeEmail(email)

	existing, err := s.invitationRepo.GetPendingByFamilyEmail(familyID, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing invitation: %w", err)
	}

	var token string
	if existing != nil && !existing.IsExpired() {
		token = existing.Token
	} else {
		if existing != nil {
			if err := s.invitationRepo.MarkExpired(existing.ID); err != nil {
				return "", fmt.Errorf("failed to expire stale invitation: %w", err)
			}
		}
		token = utils.GenerateInvitationToken()
		if _, err := s.invitationRepo.CreateInvitation(familyID, email, invitedBy, token, time.Now().Add(s.ttl)); err != nil {
			return "", err
		}
	}

	inviteURL := fmt.Sprintf("%s/accept-invitation?token=%s", s.appBaseURL, token)
	expiryDays := int(s.ttl.Hours() / 24)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.mailer.SendInvitationEmail(ctx, email, senderName, familyName, token, inviteURL, expiryDays); err != nil {
			log.Printf("Failed to send invitation email to %s: %v", email, err)
		}
	}()

	return token, nil
}

// GetByToken looks up a redeemable invitation. It returns (nil, nil) for an
// unknown token, a non-pending one, and an expired one alike, so the lookup
// can't be used as a token-enumeration oracle.
func (s *InvitationService) GetByToken(token string) (*models.Invitation, error) {
	inv, err := s.invitationRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil || !inv.IsValid() {
		return nil, nil
	}
	return inv, nil
}

// Accept redeems an invitation for the authenticated user and returns the
// family ID joined. The caller's verified email must match the invitation's
// stored (normalized) email exactly.
func (s *InvitationService) Accept(user *models.User, token string) (int64, error) {
	inv, err := s.GetByToken(token)
	if err != nil {
		return 0, err
	}
	if inv == nil {
		return 0, ErrInvalidInvitation
	}

	if utils.NormalizeEmail(user.Email) != inv.Email {
		return 0, ErrEmailMismatch
	}

	membership, err := s.familyRepo.GetActiveMembership(user.ID)
	if err != nil {
		return 0, err
	}
	if membership != nil {
		return 0, ErrAlreadyMember
	}

	if err := s.invitationRepo.Accept(inv, user.ID); err != nil {
		return 0, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return inv.FamilyID, nil
}
