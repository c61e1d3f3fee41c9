package services

import (
	"context"
	"log"
	"strings"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/audit"
	"admission-backend/internal/cache"
	"admission-backend/internal/finance"
	"admission-backend/internal/metrics"
	"admission-backend/internal/models"
	"admission-backend/internal/timeutil"

	"github.com/prometheus/client_golang/prometheus"
)

// AdmissionStore is the persistence surface the admission service needs.
type AdmissionStore interface {
	Create(ctx context.Context, a *models.Admission) error
	Get(ctx context.Context, id int) (*models.Admission, error)
	List(ctx context.Context, f *models.AdmissionFilter) ([]*models.Admission, int, error)
	Update(ctx context.Context, a *models.Admission) error
	UpdateSummary(ctx context.Context, a *models.Admission) error
	SoftDelete(ctx context.Context, id, deletedBy int) error
}

// FlowSummer aggregates an admission's payments into per-flow totals.
type FlowSummer interface {
	SumFlows(ctx context.Context, admissionID int) (finance.FlowTotals, error)
}

// AdmissionService owns admission intake and the financial recompute that
// keeps each admission's denormalized summary consistent with its payments.
type AdmissionService struct {
	Admissions AdmissionStore
	Flows      FlowSummer
	Audit      *audit.Recorder

	locks *admissionLocks
}

func NewAdmissionService(admissions AdmissionStore, flows FlowSummer, rec *audit.Recorder) *AdmissionService {
	return &AdmissionService{
		Admissions: admissions,
		Flows:      flows,
		Audit:      rec,
		locks:      newAdmissionLocks(),
	}
}

func (s *AdmissionService) Create(ctx context.Context, req *models.CreateAdmissionRequest, actorID int) (*models.Admission, error) {
	if err := validateCreateAdmission(req); err != nil {
		return nil, err
	}

	a := &models.Admission{
		AdmissionDate:  timeutil.Now(),
		BranchID:       req.BranchID,
		CollegeID:      req.CollegeID,
		CourseID:       req.CourseID,
		AcademicYear:   req.AcademicYear,
		Status:         req.Status,
		ReferralSource: req.ReferralSource,
		Student:        req.Student,
		Fees:           req.Fees,
		ServiceCharge:  req.ServiceCharge,
		Agent:          req.Agent,
		Agents:         req.Agents,
		Notes:          req.Notes,
		CreatedBy:      actorID,
	}
	if req.AdmissionDate != nil {
		a.AdmissionDate = *req.AdmissionDate
	}
	if a.Status == "" {
		a.Status = models.AdmissionPending
	}
	finance.Derive(a)

	if err := s.Admissions.Create(ctx, a); err != nil {
		return nil, err
	}
	cache.InvalidateAdmissionCaches(ctx)
	s.Audit.Record("create", "admission", a.ID, nil, a, actorID)
	return a, nil
}

func (s *AdmissionService) Get(ctx context.Context, id int) (*models.Admission, error) {
	return s.Admissions.Get(ctx, id)
}

func (s *AdmissionService) List(ctx context.Context, f *models.AdmissionFilter) ([]*models.Admission, int, error) {
	return s.Admissions.List(ctx, f)
}

// Update applies a partial edit and re-runs the financial recompute, since
// fee or service-charge changes move every derived field.
func (s *AdmissionService) Update(ctx context.Context, id int, req *models.UpdateAdmissionRequest, actorID int) (*models.Admission, error) {
	a, err := s.Admissions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *a

	if req.AdmissionDate != nil {
		a.AdmissionDate = *req.AdmissionDate
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.ReferralSource != nil {
		a.ReferralSource = *req.ReferralSource
	}
	if req.AcademicYear != nil {
		a.AcademicYear = *req.AcademicYear
	}
	if req.Student != nil {
		a.Student = *req.Student
	}
	if req.Fees != nil {
		a.Fees = *req.Fees
	}
	if req.ServiceCharge != nil {
		// Only the agreed amount is client-settable; the rest is recomputed
		// from payment history below.
		a.ServiceCharge.Agreed = req.ServiceCharge.Agreed
	}
	if req.Agent != nil {
		a.Agent = req.Agent
	}
	if req.Agents != nil {
		a.Agents = req.Agents
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	a.UpdatedBy = &actorID

	finance.Derive(a)
	if err := s.Admissions.Update(ctx, a); err != nil {
		return nil, err
	}
	cache.InvalidateAdmissionCaches(ctx)
	if err := s.Recompute(ctx, id); err != nil {
		return nil, err
	}
	s.Audit.Record("update", "admission", id, &before, a, actorID)
	return s.Admissions.Get(ctx, id)
}

func (s *AdmissionService) Delete(ctx context.Context, id, actorID int) error {
	if err := s.Admissions.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	cache.InvalidateAdmissionCaches(ctx)
	s.Audit.Record("delete", "admission", id, nil, nil, actorID)
	return nil
}

// Recompute rebuilds the admission's denormalized financial summary from
// its full payment history. It is idempotent, serialized per admission,
// and a no-op when the admission is missing or deleted. A transient
// failure is retried once before surfacing.
func (s *AdmissionService) Recompute(ctx context.Context, admissionID int) error {
	unlock := s.locks.Lock(admissionID)
	defer unlock()

	timer := prometheus.NewTimer(metrics.RecomputeDuration)
	defer timer.ObserveDuration()

	err := s.recomputeOnce(ctx, admissionID)
	if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
		log.Printf("[RECOMPUTE] admission %d failed, retrying: %v", admissionID, err)
		err = s.recomputeOnce(ctx, admissionID)
	}
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil
	}
	if err != nil {
		metrics.RecomputeFailures.Inc()
	}
	return err
}

func (s *AdmissionService) recomputeOnce(ctx context.Context, admissionID int) error {
	a, err := s.Admissions.Get(ctx, admissionID)
	if err != nil {
		return err
	}
	totals, err := s.Flows.SumFlows(ctx, admissionID)
	if err != nil {
		return err
	}
	finance.Summarize(a, totals)
	return s.Admissions.UpdateSummary(ctx, a)
}

func validateCreateAdmission(req *models.CreateAdmissionRequest) error {
	e := apperrors.Validation("admission validation failed")
	if strings.TrimSpace(req.Student.FirstName) == "" {
		e = e.WithField("student.firstName", "first name is required")
	}
	if strings.TrimSpace(req.Student.Phone) == "" {
		e = e.WithField("student.phone", "phone is required")
	}
	if req.BranchID == 0 {
		e = e.WithField("branch_id", "branch is required")
	}
	if req.CollegeID == 0 {
		e = e.WithField("college_id", "college is required")
	}
	if req.CourseID == 0 {
		e = e.WithField("course_id", "course is required")
	}
	if req.ServiceCharge.Agreed < 0 {
		e = e.WithField("service_charge.agreed", "agreed service charge cannot be negative")
	}
	if req.Status != "" && req.Status != models.AdmissionPending &&
		req.Status != models.AdmissionConfirmed && req.Status != models.AdmissionCancelled {
		e = e.WithField("admission_status", "unknown admission status")
	}
	if len(e.FieldErrors) > 0 {
		return e
	}
	return nil
}
