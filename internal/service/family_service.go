package service

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"familytracker/internal/models"
	"familytracker/internal/repository"
)

// FamilyService handles family and membership business logic
type FamilyService struct {
	familyRepo   *repository.FamilyRepository
	categoryRepo *repository.CategoryRepository
	invitations  *InvitationService
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, categoryRepo *repository.CategoryRepository, invitations *InvitationService) *FamilyService {
	return &FamilyService{
		familyRepo:   familyRepo,
		categoryRepo: categoryRepo,
		invitations:  invitations,
	}
}

// CreateFamily creates a new family with the caller as admin, seeds the
// default category list, and fans out invitations to the provided emails.
// Invitation sends are best-effort: an individual failure is logged and does
// not fail the operation or block the other invites.
func (s *FamilyService) CreateFamily(creator *models.User, name string, inviteEmails []string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrFamilyNameRequired
	}

	membership, err := s.familyRepo.GetActiveMembership(creator.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to check membership: %w", err)
	}
	if membership != nil {
		return 0, ErrAlreadyMember
	}

	family, err := s.familyRepo.CreateFamilyWithAdmin(name, creator.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to create family: %w", err)
	}

	if err := s.categoryRepo.CreateAll(family.ID, creator.ID, DefaultCategories()); err != nil {
		log.Printf("Warning: failed to seed categories for family %d: %v", family.ID, err)
	}

	var wg sync.WaitGroup
	for _, email := range inviteEmails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			if _, err := s.invitations.Issue(family.ID, email, creator.ID, family.Name, creator.DisplayName()); err != nil {
				log.Printf("Failed to invite %s to family %d: %v", email, family.ID, err)
			}
		}(email)
	}
	wg.Wait()

	return family.ID, nil
}

// GetCurrentFamily returns the caller's family and membership, or
// (nil, nil, nil) if they have no active membership.
func (s *FamilyService) GetCurrentFamily(userID int64) (*models.Family, *models.FamilyMember, error) {
	membership, err := s.familyRepo.GetActiveMembership(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, nil, nil
	}

	family, err := s.familyRepo.GetFamilyByID(membership.FamilyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, nil, nil
	}

	return family, membership, nil
}

// ListMembers returns every member (any status) of the caller's family,
// joined with identity for display.
func (s *FamilyService) ListMembers(userID int64) ([]models.MemberWithUser, error) {
	membership, err := s.familyRepo.GetActiveMembership(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNotFamilyMember
	}

	members, err := s.familyRepo.GetMembersWithUsers(membership.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}

	return members, nil
}

// InviteMember issues an invitation to join the caller's family. Only
// admins may invite.
func (s *FamilyService) InviteMember(caller *models.User, email string) (string, error) {
	membership, err := s.familyRepo.GetActiveMembership(caller.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil || !membership.IsAdmin() {
		return "", ErrNotAdmin
	}

	family, err := s.familyRepo.GetFamilyByID(membership.FamilyID)
	if err != nil {
		return "", fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return "", ErrFamilyNotFound
	}

	return s.invitations.Issue(family.ID, email, caller.ID, family.Name, caller.DisplayName())
}

// RemoveMember soft-deletes a membership in the caller's family. Only
// admins may remove members, and never themselves. The row is retained for
// history; any already-issued sessions are the auth provider's concern.
func (s *FamilyService) RemoveMember(callerID, memberID int64) error {
	membership, err := s.familyRepo.GetActiveMembership(callerID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil || !membership.IsAdmin() {
		return ErrNotAdmin
	}

	target, err := s.familyRepo.GetMemberByID(memberID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if target == nil || target.FamilyID != membership.FamilyID {
		return ErrMemberNotFound
	}

	if target.UserID == callerID {
		return ErrCannotRemoveSelf
	}

	if err := s.familyRepo.UpdateMemberStatus(memberID, models.StatusRemoved); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
