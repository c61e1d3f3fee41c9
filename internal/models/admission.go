package models

import "time"

// Student holds the student bio details stored on an admission.
type Student struct {
	FirstName            string  `json:"firstName"`
	LastName             string  `json:"lastName"`
	Email                string  `json:"email,omitempty"`
	Phone                string  `json:"phone"`
	DOB                  *time.Time `json:"dob,omitempty"`
	Gender               string  `json:"gender,omitempty"`
	HighestQualification string  `json:"highestQualification,omitempty"`
	AddressState         string  `json:"addressState,omitempty"`
	AddressDistrict      string  `json:"addressDistrict,omitempty"`
	AddressCity          string  `json:"addressCity,omitempty"`
	AddressPincode       string  `json:"addressPincode,omitempty"`
	AddressLine          string  `json:"addressLine,omitempty"`
	ParentsPhone         string  `json:"parentsPhone,omitempty"`
}

// FullName returns "First Last" for voucher/daybook descriptions.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Fees holds the per-year fee structure. TotalFee is derived and is
// overwritten on every write; it is never settable by clients.
type Fees struct {
	OfferedFee     float64 `json:"offeredFee"`
	AdmissionFee   float64 `json:"admissionFee"`
	TuitionYear1   float64 `json:"tuitionFeeYear1"`
	TuitionYear2   float64 `json:"tuitionFeeYear2"`
	TuitionYear3   float64 `json:"tuitionFeeYear3"`
	TuitionYear4   float64 `json:"tuitionFeeYear4"`
	HostelIncluded bool    `json:"hostelIncluded"`
	HostelYear1    float64 `json:"hostelFeeYear1"`
	HostelYear2    float64 `json:"hostelFeeYear2"`
	HostelYear3    float64 `json:"hostelFeeYear3"`
	HostelYear4    float64 `json:"hostelFeeYear4"`
	TotalFee       float64 `json:"totalFee"`
}

// ServiceCharge tracks the consultancy's margin on an admission.
// Received and Due are derived.
type ServiceCharge struct {
	Agreed              float64 `json:"agreed"`
	ReceivedFromCollege float64 `json:"receivedFromCollege"`
	DeductedFromStudent float64 `json:"deductedFromStudent"`
	DeductedByAgent     float64 `json:"deductedByAgent"`
	PaidBackToCollege   float64 `json:"paidBackToCollege"`
	Received            float64 `json:"received"`
	Due                 float64 `json:"due"`
}

// CollegePayment tracks what the consultancy owes the college for an
// admission. BalanceDueToCollege is derived.
type CollegePayment struct {
	TotalDueToCollege   float64 `json:"totalDueToCollege"`
	PaidToCollege       float64 `json:"paidToCollege"`
	BalanceDueToCollege float64 `json:"balanceDueToCollege"`
}

// PaymentSummary is the denormalized rollup on an admission. It is owned
// exclusively by the financial recompute; no other code path writes it.
type PaymentSummary struct {
	StudentPaid float64 `json:"studentPaid"`
	StudentDue  float64 `json:"studentDue"`
	AgentPaid   float64 `json:"agentPaid"`
	AgentDue    float64 `json:"agentDue"`
}

// LegacyAgent is the original single-agent attribution kept for older
// admissions. Honored only when Agents is absent.
type LegacyAgent struct {
	AgentType AgentType `json:"agentType,omitempty"`
	AgentID   *int      `json:"agentId,omitempty"`
	AgentFee  float64   `json:"agentFee"`
}

// AgentSlot is one agent's allocation in the multi-agent structure.
type AgentSlot struct {
	AgentID  *int    `json:"agentId,omitempty"`
	AgentFee float64 `json:"agentFee"`
	FeePaid  float64 `json:"feePaid"`
	FeeDue   float64 `json:"feeDue"`
}

// Agents is the multi-agent structure. The Total* rollups are derived.
type Agents struct {
	MainAgent         AgentSlot `json:"mainAgent"`
	CollegeAgent      AgentSlot `json:"collegeAgent"`
	SubAgent          AgentSlot `json:"subAgent"`
	TotalAgentFee     float64   `json:"totalAgentFee"`
	TotalAgentFeePaid float64   `json:"totalAgentFeePaid"`
	TotalAgentFeeDue  float64   `json:"totalAgentFeeDue"`
}

// Admission is one enrolled student in one course at one branch.
type Admission struct {
	ID             int            `json:"id"`
	AdmissionNo    string         `json:"admission_no"`
	AdmissionDate  time.Time      `json:"admission_date"`
	BranchID       int            `json:"branch_id"`
	CollegeID      int            `json:"college_id"`
	CourseID       int            `json:"course_id"`
	AcademicYear   string         `json:"academic_year"`
	Status         string         `json:"admission_status"`
	ReferralSource string         `json:"referral_source,omitempty"`
	Student        Student        `json:"student"`
	Fees           Fees           `json:"fees"`
	ServiceCharge  ServiceCharge  `json:"service_charge"`
	CollegePayment CollegePayment `json:"college_payment"`
	PaymentSummary PaymentSummary `json:"payment_summary"`
	Agent          *LegacyAgent   `json:"agent,omitempty"`
	Agents         *Agents        `json:"agents,omitempty"`
	Notes          string         `json:"notes,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int       `json:"deleted_by,omitempty"`
	CreatedBy int        `json:"created_by"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateAdmissionRequest is the intake payload. AdmissionNo is minted
// server-side and must not be supplied.
type CreateAdmissionRequest struct {
	AdmissionDate  *time.Time     `json:"admission_date"`
	BranchID       int            `json:"branch_id"`
	CollegeID      int            `json:"college_id"`
	CourseID       int            `json:"course_id"`
	AcademicYear   string         `json:"academic_year"`
	Status         string         `json:"admission_status"`
	ReferralSource string         `json:"referral_source"`
	Student        Student        `json:"student"`
	Fees           Fees           `json:"fees"`
	ServiceCharge  ServiceCharge  `json:"service_charge"`
	Agent          *LegacyAgent   `json:"agent"`
	Agents         *Agents        `json:"agents"`
	Notes          string         `json:"notes"`
}

// UpdateAdmissionRequest carries partial updates. Nil groups are left
// untouched; derived fields in supplied groups are recomputed server-side.
type UpdateAdmissionRequest struct {
	AdmissionDate  *time.Time     `json:"admission_date"`
	Status         *string        `json:"admission_status"`
	ReferralSource *string        `json:"referral_source"`
	AcademicYear   *string        `json:"academic_year"`
	Student        *Student       `json:"student"`
	Fees           *Fees          `json:"fees"`
	ServiceCharge  *ServiceCharge `json:"service_charge"`
	Agent          *LegacyAgent   `json:"agent"`
	Agents         *Agents        `json:"agents"`
	Notes          *string        `json:"notes"`
}

// AdmissionFilter narrows admission listings.
type AdmissionFilter struct {
	Search       string
	BranchID     int
	CollegeID    int
	CourseID     int
	Status       string
	AcademicYear string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	Limit        int
}
