package services

import (
	"errors"

	"accreditation-audit-api/models"

	"gorm.io/gorm"
)

// RoleKind tags the resolved role of a principal.
type RoleKind int

const (
	RoleNone RoleKind = iota
	RoleCoordinator
	RoleAuditor
	RoleAdmin
)

// Principal is the resolved identity of an authenticated user, computed once
// per request and passed explicitly into every permission check. At most one
// of Coordinator/Auditor is set; both nil is a legitimate non-privileged
// state, not an error.
type Principal struct {
	UserID      int
	Kind        RoleKind
	Coordinator *models.Coordinator
	Auditor     *models.Auditor
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Kind == RoleAdmin
}

// AccessService resolves principals and answers program/session permission
// queries.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// ResolveRole builds the principal for a user. Admins resolve from the user
// row's role; coordinator and auditor links resolve from their one-to-one
// records, absence yielding RoleNone.
func (s *AccessService) ResolveRole(userID int) (*Principal, error) {
	p := &Principal{UserID: userID, Kind: RoleNone}

	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", userID)
		}
		return nil, err
	}

	if user.RoleID == models.RoleAdmin {
		p.Kind = RoleAdmin
		return p, nil
	}

	coordinator, err := s.ResolveCoordinator(userID)
	if err != nil {
		return nil, err
	}
	if coordinator != nil {
		p.Kind = RoleCoordinator
		p.Coordinator = coordinator
		return p, nil
	}

	auditor, err := s.ResolveAuditor(userID)
	if err != nil {
		return nil, err
	}
	if auditor != nil {
		p.Kind = RoleAuditor
		p.Auditor = auditor
	}

	return p, nil
}

// ResolveCoordinator returns the coordinator record linked to the user, or
// nil when none exists.
func (s *AccessService) ResolveCoordinator(userID int) (*models.Coordinator, error) {
	var coordinator models.Coordinator
	err := s.db.Where("user_id = ?", userID).First(&coordinator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coordinator, nil
}

// ResolveProgram returns the program the user coordinates, or nil when the
// user is not a coordinator or the coordinator has no program link.
func (s *AccessService) ResolveProgram(userID int) (*models.Program, error) {
	coordinator, err := s.ResolveCoordinator(userID)
	if err != nil {
		return nil, err
	}
	if coordinator == nil || coordinator.ProgramID == nil {
		return nil, nil
	}

	var program models.Program
	if err := s.db.First(&program, *coordinator.ProgramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &program, nil
}

// ResolveAuditor returns the auditor record linked to the user, or nil when
// none exists.
func (s *AccessService) ResolveAuditor(userID int) (*models.Auditor, error) {
	var auditor models.Auditor
	err := s.db.Where("user_id = ?", userID).First(&auditor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auditor, nil
}

// CanAccessProgram reports whether the principal may act on the program:
// admins always, coordinators only on their own program.
func (s *AccessService) CanAccessProgram(p *Principal, programID int) (bool, error) {
	if p.IsAdmin() {
		return true, nil
	}
	program, err := s.ResolveProgram(p.UserID)
	if err != nil {
		return false, err
	}
	return program != nil && program.ProgramID == programID, nil
}

// CanAccessSession reports whether the principal may act on the session:
// admins always, the session program's coordinator, the lead auditor, or a
// member auditor.
func (s *AccessService) CanAccessSession(p *Principal, session *models.AuditSession) (bool, error) {
	if p.IsAdmin() {
		return true, nil
	}

	ok, err := s.CanAccessProgram(p, session.ProgramID)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	auditor, err := s.ResolveAuditor(p.UserID)
	if err != nil {
		return false, err
	}
	if auditor == nil {
		return false, nil
	}

	if session.LeadAuditorID != nil && *session.LeadAuditorID == auditor.AuditorID {
		return true, nil
	}

	var count int64
	err = s.db.Table("audit_session_members").
		Where("session_id = ? AND auditor_id = ?", session.SessionID, auditor.AuditorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RequireSessionAccess loads a session and enforces access in one step,
// returning ErrNotFound for a missing session before any permission check.
func (s *AccessService) RequireSessionAccess(p *Principal, sessionID int) (*models.AuditSession, error) {
	var session models.AuditSession
	if err := s.db.Preload("Program").First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("audit session", sessionID)
		}
		return nil, err
	}

	ok, err := s.CanAccessSession(p, &session)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return &session, nil
}
