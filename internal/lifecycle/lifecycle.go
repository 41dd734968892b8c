// Package lifecycle implements the status and role transition rules of the
// platform: which actor may change which flag on which entity, and the
// cross-entity effect a confirmed sighting has on its car.
package lifecycle

import (
	"errors"
	"fmt"

	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/models"
	"carwatch/backend/internal/storage"
)

// Service applies gated transitions on users, cars and reports.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new lifecycle service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// SetCarStatus moves a car record to a new status. Admin only. Any status
// may follow any other; there are no terminal states.
func (s *Service) SetCarStatus(actor *models.User, carID string, rawStatus string) (*models.Car, error) {
	status, ok := models.ParseCarStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: car status %q", errs.ErrInvalidArgument, rawStatus)
	}
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may change car status", errs.ErrForbidden)
	}

	car, err := s.Storage.GetCarByID(carID)
	if err != nil {
		return nil, err
	}

	car.Status = status
	if err := s.Storage.SaveCar(car); err != nil {
		return nil, err
	}
	return car, nil
}

// SetCarVerified flips the verification flag on a car record. Admin only.
// Verification is independent of status: it marks the listing as genuine,
// nothing more.
func (s *Service) SetCarVerified(actor *models.User, carID string, verified bool) (*models.Car, error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may verify cars", errs.ErrForbidden)
	}

	car, err := s.Storage.GetCarByID(carID)
	if err != nil {
		return nil, err
	}

	car.IsVerified = verified
	if err := s.Storage.SaveCar(car); err != nil {
		return nil, err
	}
	return car, nil
}

// SetReportStatus moves a sighting report to a new status and, when the new
// status is confirmed, marks the report verified and the parent car found.
// Both writes of a confirmation are applied in one transaction.
func (s *Service) SetReportStatus(actor *models.User, reportID string, rawStatus string, notes string) (*models.Report, error) {
	status, ok := models.ParseReportStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: report status %q", errs.ErrInvalidArgument, rawStatus)
	}
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may change report status", errs.ErrForbidden)
	}

	report, err := s.Storage.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}

	report.Status = status
	if notes != "" {
		report.AdminNotes = notes
	}

	// Compute both halves of the confirmation first, then persist them
	// together.
	var car *models.Car
	if status == models.ReportStatusConfirmed {
		report.IsVerified = true

		car, err = s.Storage.GetCarByID(report.CarID)
		switch {
		case err == nil:
			car.Status = models.CarStatusFound
		case errors.Is(err, errs.ErrNotFound):
			// A report can outlive its car reference; confirm the
			// report alone.
			car = nil
		default:
			return nil, err
		}
	}

	if err := s.Storage.SaveReportAndCar(report, car); err != nil {
		return nil, err
	}
	return report, nil
}

// SetUserRole changes a user's role. Only user and admin are assignable:
// superadmin is never granted through this path. Granting admin requires a
// superadmin actor; self-targeting and non-peer changes to superadmins are
// rejected.
func (s *Service) SetUserRole(actor *models.User, targetID string, rawRole string) (*models.User, error) {
	role, ok := models.ParseRole(rawRole)
	if !ok || role == models.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: role %q", errs.ErrInvalidArgument, rawRole)
	}
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may change roles", errs.ErrForbidden)
	}
	if role == models.RoleAdmin && actor.Role.Tier() < models.RoleSuperAdmin.Tier() {
		return nil, fmt.Errorf("%w: only a superadmin may grant admin", errs.ErrForbidden)
	}

	target, err := s.Storage.GetUserByID(targetID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTarget(actor, target); err != nil {
		return nil, err
	}

	target.Role = role
	if err := s.Storage.SaveUser(target); err != nil {
		return nil, err
	}
	return target, nil
}

// SetUserActive toggles an account's active flag. Any admin may act on any
// non-superadmin target other than themselves.
func (s *Service) SetUserActive(actor *models.User, targetID string, active bool) (*models.User, error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may change account status", errs.ErrForbidden)
	}

	target, err := s.Storage.GetUserByID(targetID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTarget(actor, target); err != nil {
		return nil, err
	}

	target.IsActive = active
	if err := s.Storage.SaveUser(target); err != nil {
		return nil, err
	}
	return target, nil
}

// checkTarget enforces the rules shared by role and active-flag changes:
// no self-targeting, and superadmins are only modifiable by peers.
func (s *Service) checkTarget(actor, target *models.User) error {
	if target.ID == actor.ID {
		return fmt.Errorf("%w: cannot change your own account", errs.ErrForbidden)
	}
	if target.Role == models.RoleSuperAdmin && actor.Role.Tier() < models.RoleSuperAdmin.Tier() {
		return fmt.Errorf("%w: superadmin accounts are protected", errs.ErrForbidden)
	}
	return nil
}
