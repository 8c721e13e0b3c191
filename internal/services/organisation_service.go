package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
)

var ErrNameRequired = errors.New("name is required")

// OrganisationService creates organisations and their departments.
type OrganisationService struct {
	guard
	orgRepo repository.OrganisationRepository
}

// NewOrganisationService creates a new OrganisationService.
func NewOrganisationService(dir repository.Directory, orgRepo repository.OrganisationRepository, engine *authz.Engine, log *logrus.Logger) *OrganisationService {
	return &OrganisationService{guard: newGuard(dir, engine, log), orgRepo: orgRepo}
}

// CreateOrganisation creates a new tenant. Only super admins pass the
// restricted gate for an organisation that does not exist yet.
func (s *OrganisationService) CreateOrganisation(ctx context.Context, actor authz.Actor, name string) (*models.Organisation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := s.authorize(ctx, actor, authz.ActionCreateOrganisation, authz.OrganisationTarget(nil)); err != nil {
		return nil, err
	}

	org := &models.Organisation{Name: name}
	if err := s.orgRepo.CreateOrganisation(ctx, org); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierrors.Duplicate("organisation")
		}
		return nil, s.failure("create organisation", err)
	}

	s.log.WithFields(logrus.Fields{"actor_id": actor.UserID, "organisation_id": org.ID}).Info("organisation created")
	return org, nil
}

// CreateDepartment adds a department to an organisation.
func (s *OrganisationService) CreateDepartment(ctx context.Context, actor authz.Actor, organisationID uint64, name string) (*models.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	org, err := s.findOrganisation(ctx, organisationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionCreateDepartment, authz.OrganisationTarget(&org.ID)); err != nil {
		return nil, err
	}

	dept := &models.Department{OrganisationID: org.ID, Name: name}
	if err := s.orgRepo.CreateDepartment(ctx, dept); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierrors.Duplicate("department")
		}
		return nil, s.failure("create department", err)
	}
	return dept, nil
}

// ListDepartments lists an organisation's departments.
func (s *OrganisationService) ListDepartments(ctx context.Context, actor authz.Actor, organisationID uint64) ([]models.Department, error) {
	org, err := s.findOrganisation(ctx, organisationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, authz.ActionListDepartments, authz.OrganisationTarget(&org.ID)); err != nil {
		return nil, err
	}

	departments, err := s.orgRepo.ListDepartments(ctx, org.ID)
	if err != nil {
		return nil, s.failure("list departments", err)
	}
	return departments, nil
}
