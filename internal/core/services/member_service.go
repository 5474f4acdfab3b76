package services

import (
	"context"
	"strings"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/core/domain"
	"library-api/internal/pkg/clock"
)

// memberService implements MemberService
type memberService struct {
	store repositories.Store
	clock clock.Clock
}

// NewMemberService creates a new member service
func NewMemberService(store repositories.Store, clk clock.Clock) MemberService {
	return &memberService{store: store, clock: clk}
}

// List returns all members sorted by last then first name
func (s *memberService) List(ctx context.Context) ([]*models.Member, error) {
	return s.store.Members().ListSorted(ctx)
}

// ListPaged returns one page of members and the total count
func (s *memberService) ListPaged(ctx context.Context, page, limit int) ([]*models.Member, int64, error) {
	return s.store.Members().List(ctx, pageOffset(page, limit), limit)
}

// GetByID returns a member or domain.ErrMemberNotFound
func (s *memberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.store.Members().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

// Search matches name, email or phone fragments
func (s *memberService) Search(ctx context.Context, query string) ([]*models.Member, error) {
	return s.store.Members().Search(ctx, strings.TrimSpace(query))
}

func (s *memberService) ListActive(ctx context.Context) ([]*models.Member, error) {
	return s.store.Members().ListActive(ctx)
}

// Create registers a member today; email must be unused
func (s *memberService) Create(ctx context.Context, input *MemberInput) (*models.Member, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	exists, err := s.store.Members().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	member := &models.Member{
		Active:           true,
		RegistrationDate: s.clock.Today(),
	}
	applyMemberInput(member, input)

	if err := s.store.Members().Create(ctx, member); err != nil {
		return nil, duplicateAs(err, domain.ErrDuplicateEmail)
	}
	return member, nil
}

// Update updates a member, re-checking uniqueness when the email changes
func (s *memberService) Update(ctx context.Context, id uint, input *MemberInput) (*models.Member, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var member *models.Member
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		member, err = tx.Members().GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}

		email := normalizeEmail(input.Email)
		if !strings.EqualFold(member.Email, email) {
			exists, err := tx.Members().ExistsByEmail(ctx, email)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateEmail
			}
		}

		applyMemberInput(member, input)
		return duplicateAs(tx.Members().Update(ctx, member), domain.ErrDuplicateEmail)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// ToggleActivation flips the active flag. Existing loans are unaffected.
func (s *memberService) ToggleActivation(ctx context.Context, id uint) (*models.Member, error) {
	var member *models.Member
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		member, err = tx.Members().GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}

		member.Active = !member.Active
		return tx.Members().Update(ctx, member)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a member without unreturned loans, together with their loan history
func (s *memberService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Members().GetByIDForUpdate(ctx, id); err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}

		active, err := tx.Loans().ExistsActiveByMember(ctx, id)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrMemberHasActiveLoans
		}

		if err := tx.Loans().DeleteByMember(ctx, id); err != nil {
			return err
		}
		return tx.Members().Delete(ctx, id)
	})
}

func (s *memberService) validate(input *MemberInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	fields := map[string]string{}
	checkNotFuture(fields, "birth_date", input.BirthDate, s.clock.Today())
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func applyMemberInput(member *models.Member, input *MemberInput) {
	member.FirstName = strings.TrimSpace(input.FirstName)
	member.LastName = strings.TrimSpace(input.LastName)
	member.Email = normalizeEmail(input.Email)
	member.Phone = strings.TrimSpace(input.Phone)
	member.Address = input.Address
	member.BirthDate = input.BirthDate
	if input.Active != nil {
		member.Active = *input.Active
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
