package policies

import (
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

// ValidateRegistrationRole checks the role picked at sign-up. Admin
// accounts are seeded out of band and can never be self-registered.
func ValidateRegistrationRole(role string) error {
	if !constants.IsRegistrationRole(role) {
		return ErrInvalidRegistrationRole
	}
	return nil
}

// RejectRoleChange enforces role immutability: no update path may carry
// a role field, regardless of the actor.
func RejectRoleChange(fields map[string]interface{}) error {
	if _, ok := fields["role"]; ok {
		return ErrRoleIsImmutable
	}
	return nil
}

// ValidateUserRemovalParams carries the actor/target pair for admin removal.
type ValidateUserRemovalParams struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
}

// ValidateUserRemoval checks an admin remove-user request: the target
// must exist, admins cannot remove themselves, and admins cannot remove
// other admins. Returns the target for the caller to act on.
func ValidateUserRemoval(db *gorm.DB, params ValidateUserRemovalParams) (*domain.User, error) {
	if params.ActorUserID == params.TargetUserID {
		return nil, ErrYouCannotRemoveYourself
	}
	var target domain.User
	if err := db.Where("user_id = ?", params.TargetUserID).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTargetUserNotFound
		}
		return nil, err
	}
	if target.Role == constants.RoleAdmin {
		return nil, ErrAdminsCannotRemoveAdmins
	}
	return &target, nil
}
