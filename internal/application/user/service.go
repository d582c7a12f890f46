package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"seedlink-backend/internal/application/emails"
	policies "seedlink-backend/internal/application/policies/user"
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds DB and Redis for user operations.
type Service struct {
	DB          *gorm.DB
	Rdb         *redis.Client
	EmailSender emails.Sender
}

// RegisterInput is the registration payload. Role is picked once here
// and never changes afterwards.
type RegisterInput struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
}

// Register creates a user with role startup or investor. Returns the
// created model (caller sanitizes password_hash).
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.UserName) == "" {
		return nil, errors.New("Username is required and must be a non-empty string")
	}
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}
	if strings.TrimSpace(in.Fullname) == "" {
		return nil, errors.New("Full name is required and must be a non-empty string")
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if !validation.IsValidFullname(trimmed) {
		return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	}
	if err := policies.ValidateRegistrationRole(in.Role); err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(in.UserName)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	fullname := titleCaseAndNormalize(trimmed)

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("Email already registered")
	}
	if err := s.DB.WithContext(ctx).Where("user_name = ?", userName).First(&existing).Error; err == nil {
		return nil, errors.New("Username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     fullname,
		Role:         in.Role,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}

	if s.EmailSender != nil {
		firstName := fullname
		if i := strings.Index(fullname, " "); i > 0 {
			firstName = fullname[:i]
		}
		go func() {
			_ = s.EmailSender.SendWelcome(context.Background(), u.Email, firstName)
		}()
	}

	return u, nil
}

// UpdateUser updates allowed fields. Allowed: user_name, email,
// password, fullname, wallet_address, upi_id, profile_image_url.
// A role field is rejected outright (role immutability policy).
func (s *Service) UpdateUser(ctx context.Context, userID string, fields map[string]interface{}) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, errors.New("Invalid user ID format (must be a valid UUID)")
	}
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}
	if err := policies.RejectRoleChange(fields); err != nil {
		return nil, err
	}

	allowed := map[string]bool{
		"user_name": true, "email": true, "password": true, "fullname": true,
		"wallet_address": true, "upi_id": true, "profile_image_url": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	if e, ok := upd["email"].(string); ok && e != "" {
		if !validation.IsValidEmail(e) {
			return nil, errors.New("Invalid email format")
		}
		upd["email"] = strings.TrimSpace(strings.ToLower(e))
	}
	if p, ok := upd["password"].(string); ok && p != "" {
		if !validation.IsValidPassword(p) {
			return nil, errors.New("Invalid password format")
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte(p), 10)
		upd["password_hash"] = string(hash)
		delete(upd, "password")
	}
	if fn, ok := upd["fullname"].(string); ok {
		trimmed := strings.TrimSpace(fn)
		if trimmed == "" {
			return nil, errors.New("Full name must be a non-empty string")
		}
		if !validation.IsValidFullname(trimmed) {
			return nil, errors.New("Full name contains invalid characters")
		}
		upd["fullname"] = titleCaseAndNormalize(trimmed)
	}
	if un, ok := upd["user_name"].(string); ok {
		upd["user_name"] = strings.TrimSpace(un)
	}
	if wa, ok := upd["wallet_address"].(string); ok && wa != "" && !validation.IsValidWalletAddress(wa) {
		return nil, errors.New("Invalid wallet address")
	}
	if vpa, ok := upd["upi_id"].(string); ok && vpa != "" && !validation.IsValidUpiID(vpa) {
		return nil, errors.New("Invalid UPI ID")
	}

	// Uniqueness: no other user (excluding this one) may have the new email or user_name
	if e, ok := upd["email"].(string); ok {
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("email = ? AND user_id != ?", e, userID).First(&dup).Error; err == nil {
			return nil, errors.New("Email already registered")
		}
	}
	if un, ok := upd["user_name"].(string); ok {
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("user_name = ? AND user_id != ?", un, userID).First(&dup).Error; err == nil {
			return nil, errors.New("Username already registered")
		}
	}

	result := s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("User not found")
	}

	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ViewUser returns user by ID.
func (s *Service) ViewUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	return &u, nil
}

// RemoveUserInput carries the actor/target pair for admin removal.
type RemoveUserInput struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
}

// RemoveUser soft-deletes one user after policy checks and destroys
// their sessions. Scoped to a single target, never a bulk operation.
func (s *Service) RemoveUser(ctx context.Context, in RemoveUserInput) error {
	target, err := policies.ValidateUserRemoval(s.DB, policies.ValidateUserRemovalParams{
		ActorUserID:  in.ActorUserID,
		ActorRole:    in.ActorRole,
		TargetUserID: in.TargetUserID,
	})
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(target).Error; err != nil {
		return err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, in.TargetUserID)
	return nil
}

func titleCaseAndNormalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	runes := []rune(s)
	var b strings.Builder
	capitalize := true
	for _, r := range runes {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
