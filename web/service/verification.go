package service

import (
	"strings"
	"time"

	"blogapi/database"
	"blogapi/database/model"
	"blogapi/logger"

	"gorm.io/gorm"
)

// VerificationService manages verification requests and applies the status
// transition with its side effects: role promotion on approval and a mail
// notification to the owner on either outcome.
type VerificationService struct {
	DB       *gorm.DB
	notifier *NotificationService
}

func NewVerificationService(notifier *NotificationService) *VerificationService {
	return &VerificationService{DB: database.GetDB(), notifier: notifier}
}

// HasOpenRequest reports whether the user owns a request still in the
// requested state. The read-then-write check at creation time is racy under
// concurrent requests from the same user; see DESIGN.md.
func (s *VerificationService) HasOpenRequest(userId int) (bool, error) {
	var count int64
	err := s.DB.Model(&model.VerificationRequest{}).
		Where("owner_id = ? AND status = ?", userId, model.StatusRequested).
		Count(&count).Error
	return count > 0, err
}

// CreateRequest stores a new request in the requested state.
func (s *VerificationService) CreateRequest(owner *model.User, pidImage string) (*model.VerificationRequest, error) {
	pidImage = strings.TrimSpace(pidImage)
	if pidImage == "" {
		return nil, newValidationError("pidImage must not be blank")
	}

	hasOpen, err := s.HasOpenRequest(owner.Id)
	if err != nil {
		return nil, err
	}
	if hasOpen {
		return nil, ErrOpenRequestExists
	}

	req := &model.VerificationRequest{
		Status:   model.StatusRequested,
		PidImage: pidImage,
		Created:  time.Now().Unix(),
		OwnerId:  owner.Id,
	}
	if err := s.DB.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequest loads a request with its owner.
func (s *VerificationService) GetRequest(id int) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	if err := s.DB.Preload("Owner").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListFilters narrows and orders the verification request listing. Owner
// fields match as case-sensitive substrings.
type ListFilters struct {
	Status         string
	OwnerEmail     string
	OwnerFirstName string
	OwnerLastName  string
	Order          string // "asc" or "desc" on creation time, default asc
}

// ListRequests returns requests matching the filters, owners preloaded.
func (s *VerificationService) ListRequests(f ListFilters) ([]model.VerificationRequest, error) {
	q := s.DB.Model(&model.VerificationRequest{}).
		Joins("JOIN users ON users.id = verification_requests.owner_id").
		Preload("Owner")

	if f.Status != "" {
		q = q.Where("verification_requests.status = ?", f.Status)
	}
	// instr instead of LIKE keeps the substring match case-sensitive on
	// sqlite, whose LIKE is case-insensitive for ASCII.
	if f.OwnerEmail != "" {
		q = q.Where("instr(users.email, ?) > 0", f.OwnerEmail)
	}
	if f.OwnerFirstName != "" {
		q = q.Where("instr(users.first_name, ?) > 0", f.OwnerFirstName)
	}
	if f.OwnerLastName != "" {
		q = q.Where("instr(users.last_name, ?) > 0", f.OwnerLastName)
	}

	order := "verification_requests.created ASC, verification_requests.id ASC"
	if strings.EqualFold(f.Order, "desc") {
		order = "verification_requests.created DESC, verification_requests.id DESC"
	}

	var requests []model.VerificationRequest
	if err := q.Order(order).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// VerificationUpdate carries the writable fields of a PUT. The approved flag
// and the rejection reason are admin write-group fields; for other actors
// they are dropped without error, matching the serialization-group behavior
// of the API.
type VerificationUpdate struct {
	PidImage        *string `json:"pidImage"`
	RejectionReason *string `json:"rejectionReason"`
	Approved        *bool   `json:"approved"`
}

// UpdateRequest applies upd to the stored request and runs the status
// transition. When the previous status was requested and the update closes
// the request, the persist is followed by role promotion (approval) and a
// notification mail. Mail failures are logged, never rolled back.
func (s *VerificationService) UpdateRequest(actor *model.User, req *model.VerificationRequest, upd VerificationUpdate) (*model.VerificationRequest, error) {
	prevStatus := req.Status

	if upd.PidImage != nil {
		pidImage := strings.TrimSpace(*upd.PidImage)
		if pidImage == "" {
			return nil, newValidationError("pidImage must not be blank")
		}
		req.PidImage = pidImage
	}

	closing := CanCloseVerificationRequest(actor)
	if upd.RejectionReason != nil && closing {
		req.RejectionReason = strings.TrimSpace(*upd.RejectionReason)
	}
	if upd.Approved != nil && closing {
		if *upd.Approved {
			req.Status = model.StatusApproved
		} else {
			req.Status = model.StatusDeclined
		}
	}

	if err := s.DB.Omit("Owner").Save(req).Error; err != nil {
		return nil, err
	}

	if prevStatus == model.StatusRequested && req.IsApproved() {
		if err := s.promoteOwner(req.OwnerId); err != nil {
			return nil, err
		}
		s.notifyOwner(req.OwnerId, func(email string) error {
			return s.notifier.SendVerificationRequestApprovalMail(email)
		})
	} else if prevStatus == model.StatusRequested && req.IsDeclined() {
		s.notifyOwner(req.OwnerId, func(email string) error {
			return s.notifier.SendVerificationRequestRejectionMail(email, req.RejectionReason)
		})
	}

	return s.GetRequest(req.Id)
}

// promoteOwner replaces the owner's role set with exactly the blogger role.
func (s *VerificationService) promoteOwner(ownerId int) error {
	return s.DB.Model(&model.User{}).
		Where("id = ?", ownerId).
		Update("roles", model.RoleList{model.RoleBlogger}).Error
}

func (s *VerificationService) notifyOwner(ownerId int, send func(email string) error) {
	var owner model.User
	if err := s.DB.First(&owner, ownerId).Error; err != nil {
		logger.Warningf("verification notification: owner %d lookup failed: %v", ownerId, err)
		return
	}
	if err := send(owner.Email); err != nil {
		logger.Warningf("verification notification to %s failed: %v", owner.Email, err)
	}
}
