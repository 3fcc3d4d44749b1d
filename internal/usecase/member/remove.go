package member

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	domain "github.com/fitcore/gym-backend/internal/domain/enrollment"
	"github.com/fitcore/gym-backend/internal/httperr"
)

// RemoveMember deletes the profile, its user credential and its
// transactions together. Keeping ledger rows for a missing member was
// ruled out; the cascade is explicit and transactional.
type RemoveMember struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveMember(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RemoveMember {
	return &RemoveMember{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RemoveMember) Execute(
	ctx context.Context,
	actorID string,
	memberID string,
) error {

	member, err := uc.repo.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("member_not_found", "Member not found")
		}
		return err
	}

	if err := uc.repo.DeleteMemberCascade(ctx, member); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "member_deleted",
		Entity:   "member",
		EntityID: member.ID,
		Metadata: map[string]any{"full_name": member.FullName},
	})

	return nil
}
