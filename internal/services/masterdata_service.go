package services

import (
	"context"
	"strings"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/audit"
	"admission-backend/internal/cache"
	"admission-backend/internal/models"
	"admission-backend/internal/repositories"
)

// MasterDataService covers branch, college, course and agent CRUD. Thin by
// design; the interesting rules (unique codes, immutable branch code) live
// in the repositories.
type MasterDataService struct {
	Branches *repositories.BranchRepository
	Colleges *repositories.CollegeRepository
	Courses  *repositories.CourseRepository
	Agents   *repositories.AgentRepository
	Audit    *audit.Recorder
}

func NewMasterDataService(
	branches *repositories.BranchRepository,
	colleges *repositories.CollegeRepository,
	courses *repositories.CourseRepository,
	agents *repositories.AgentRepository,
	rec *audit.Recorder,
) *MasterDataService {
	return &MasterDataService{
		Branches: branches,
		Colleges: colleges,
		Courses:  courses,
		Agents:   agents,
		Audit:    rec,
	}
}

func (s *MasterDataService) CreateBranch(ctx context.Context, b *models.Branch, actorID int) error {
	if strings.TrimSpace(b.Name) == "" || strings.TrimSpace(b.Code) == "" {
		return apperrors.Validation("branch name and code are required")
	}
	b.CreatedBy = actorID
	if err := s.Branches.Create(ctx, b); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("create", "branch", b.ID, nil, b, actorID)
	return nil
}

func (s *MasterDataService) GetBranch(ctx context.Context, id int) (*models.Branch, error) {
	return s.Branches.Get(ctx, id)
}

func (s *MasterDataService) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	return s.Branches.List(ctx)
}

func (s *MasterDataService) UpdateBranch(ctx context.Context, id int, b *models.Branch, actorID int) (*models.Branch, error) {
	existing, err := s.Branches.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *existing

	if b.Name != "" {
		existing.Name = b.Name
	}
	existing.City = b.City
	existing.State = b.State
	existing.Phone = b.Phone
	existing.Address = b.Address
	existing.UpdatedBy = &actorID

	if err := s.Branches.Update(ctx, existing); err != nil {
		return nil, err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("update", "branch", id, &before, existing, actorID)
	return existing, nil
}

func (s *MasterDataService) DeleteBranch(ctx context.Context, id, actorID int) error {
	if err := s.Branches.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("delete", "branch", id, nil, nil, actorID)
	return nil
}

func (s *MasterDataService) CreateCollege(ctx context.Context, c *models.College, actorID int) error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Code) == "" {
		return apperrors.Validation("college name and code are required")
	}
	c.CreatedBy = actorID
	if err := s.Colleges.Create(ctx, c); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("create", "college", c.ID, nil, c, actorID)
	return nil
}

func (s *MasterDataService) GetCollege(ctx context.Context, id int) (*models.College, error) {
	return s.Colleges.Get(ctx, id)
}

func (s *MasterDataService) ListColleges(ctx context.Context, search string) ([]*models.College, error) {
	return s.Colleges.List(ctx, search)
}

func (s *MasterDataService) UpdateCollege(ctx context.Context, id int, c *models.College, actorID int) (*models.College, error) {
	existing, err := s.Colleges.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *existing

	if c.Name != "" {
		existing.Name = c.Name
	}
	existing.City = c.City
	existing.State = c.State
	existing.Contact = c.Contact
	existing.UpdatedBy = &actorID

	if err := s.Colleges.Update(ctx, existing); err != nil {
		return nil, err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("update", "college", id, &before, existing, actorID)
	return existing, nil
}

func (s *MasterDataService) DeleteCollege(ctx context.Context, id, actorID int) error {
	if err := s.Colleges.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("delete", "college", id, nil, nil, actorID)
	return nil
}

func (s *MasterDataService) CreateCourse(ctx context.Context, c *models.Course, actorID int) error {
	e := apperrors.Validation("course validation failed")
	if strings.TrimSpace(c.Name) == "" {
		e = e.WithField("name", "name is required")
	}
	if c.CollegeID == 0 {
		e = e.WithField("college_id", "college is required")
	}
	if len(e.FieldErrors) > 0 {
		return e
	}
	if _, err := s.Colleges.Get(ctx, c.CollegeID); err != nil {
		return err
	}
	c.CreatedBy = actorID
	if err := s.Courses.Create(ctx, c); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("create", "course", c.ID, nil, c, actorID)
	return nil
}

func (s *MasterDataService) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	return s.Courses.Get(ctx, id)
}

func (s *MasterDataService) ListCourses(ctx context.Context, collegeID int) ([]*models.Course, error) {
	return s.Courses.List(ctx, collegeID)
}

func (s *MasterDataService) UpdateCourse(ctx context.Context, id int, c *models.Course, actorID int) (*models.Course, error) {
	existing, err := s.Courses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *existing

	if c.Name != "" {
		existing.Name = c.Name
	}
	if c.Code != "" {
		existing.Code = c.Code
	}
	existing.Degree = c.Degree
	existing.DurationYears = c.DurationYears
	existing.UpdatedBy = &actorID

	if err := s.Courses.Update(ctx, existing); err != nil {
		return nil, err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("update", "course", id, &before, existing, actorID)
	return existing, nil
}

func (s *MasterDataService) DeleteCourse(ctx context.Context, id, actorID int) error {
	if err := s.Courses.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("delete", "course", id, nil, nil, actorID)
	return nil
}

func (s *MasterDataService) CreateAgent(ctx context.Context, a *models.Agent, actorID int) error {
	if strings.TrimSpace(a.Name) == "" {
		return apperrors.Validation("agent name is required").WithField("name", "name is required")
	}
	if a.AgentType != "" && !models.ValidAgentTypes[a.AgentType] {
		return apperrors.Validation("unknown agent type").WithField("agent_type", "unknown agent type")
	}
	a.CreatedBy = actorID
	if err := s.Agents.Create(ctx, a); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("create", "agent", a.ID, nil, a, actorID)
	return nil
}

func (s *MasterDataService) GetAgent(ctx context.Context, id int) (*models.Agent, error) {
	return s.Agents.Get(ctx, id)
}

func (s *MasterDataService) ListAgents(ctx context.Context, search string) ([]*models.Agent, error) {
	return s.Agents.List(ctx, search)
}

func (s *MasterDataService) UpdateAgent(ctx context.Context, id int, a *models.Agent, actorID int) (*models.Agent, error) {
	existing, err := s.Agents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *existing

	if a.Name != "" {
		existing.Name = a.Name
	}
	if a.AgentType != "" {
		if !models.ValidAgentTypes[a.AgentType] {
			return nil, apperrors.Validation("unknown agent type").WithField("agent_type", "unknown agent type")
		}
		existing.AgentType = a.AgentType
	}
	existing.Phone = a.Phone
	existing.Email = a.Email
	existing.CommissionRate = a.CommissionRate
	existing.UpdatedBy = &actorID

	if err := s.Agents.Update(ctx, existing); err != nil {
		return nil, err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("update", "agent", id, &before, existing, actorID)
	return existing, nil
}

func (s *MasterDataService) DeleteAgent(ctx context.Context, id, actorID int) error {
	if err := s.Agents.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	cache.InvalidateMasterDataCaches(ctx)
	s.Audit.Record("delete", "agent", id, nil, nil, actorID)
	return nil
}
