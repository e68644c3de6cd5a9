package service

import (
	"strings"
	"time"

	"blogapi/database"
	"blogapi/database/model"
	"blogapi/util/crypto"

	"gorm.io/gorm"
)

// UserService manages account registration and profile updates.
type UserService struct {
	DB *gorm.DB
}

func NewUserService() *UserService {
	return &UserService{DB: database.GetDB()}
}

// UserUpdate carries the writable profile fields of a PUT. Nil pointers mean
// the field was absent from the payload. Roles are applied only for
// super-admin actors; the field is silently dropped otherwise, matching the
// write-group gating of the API.
type UserUpdate struct {
	Email     *string         `json:"email"`
	Password  *string         `json:"password"`
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Roles     *model.RoleList `json:"roles"`
}

// Register creates a new base-role account. All text fields are trimmed; the
// password is stored as a bcrypt hash.
func (s *UserService) Register(email, password, firstName, lastName string) (*model.User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if email == "" || !strings.Contains(email, "@") {
		return nil, newValidationError("a valid email is required")
	}
	if password == "" {
		return nil, newValidationError("password must not be blank")
	}
	if firstName == "" {
		return nil, newValidationError("first name must not be blank")
	}
	if lastName == "" {
		return nil, newValidationError("last name must not be blank")
	}

	var count int64
	if err := s.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
		Roles:     model.RoleList{model.RoleUser},
		Created:   time.Now().Unix(),
	}
	if err := s.DB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	var user model.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := s.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies upd to the stored account. The actor decides which
// fields take effect: the role set requires the super-admin role.
func (s *UserService) UpdateUser(actor *model.User, id int, upd UserUpdate) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, newValidationError("a valid email is required")
		}
		if email != user.Email {
			var count int64
			if err := s.DB.Model(&model.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrEmailTaken
			}
		}
		user.Email = email
	}
	if upd.FirstName != nil {
		firstName := strings.TrimSpace(*upd.FirstName)
		if firstName == "" {
			return nil, newValidationError("first name must not be blank")
		}
		user.FirstName = firstName
	}
	if upd.LastName != nil {
		lastName := strings.TrimSpace(*upd.LastName)
		if lastName == "" {
			return nil, newValidationError("last name must not be blank")
		}
		user.LastName = lastName
	}
	if upd.Password != nil {
		password := strings.TrimSpace(*upd.Password)
		if password == "" {
			return nil, newValidationError("password must not be blank")
		}
		hash, err := crypto.HashPasswordAsBcrypt(password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if upd.Roles != nil && CanWriteRoles(actor) {
		user.Roles = *upd.Roles
	}

	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ReplaceRoles overwrites the stored role set of the given user.
func (s *UserService) ReplaceRoles(userId int, roles model.RoleList) error {
	return s.DB.Model(&model.User{}).Where("id = ?", userId).Update("roles", roles).Error
}

// DeleteUser removes the account; posts and verification requests cascade.
func (s *UserService) DeleteUser(id int) error {
	return s.DB.Delete(&model.User{}, id).Error
}
