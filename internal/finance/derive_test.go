package finance

import (
	"testing"

	"admission-backend/internal/models"
)

func TestDeriveTotalFee(t *testing.T) {
	a := &models.Admission{
		Fees: models.Fees{
			OfferedFee:   50000,
			AdmissionFee: 10000,
			TuitionYear1: 100000,
			TuitionYear2: 100000,
			TuitionYear3: 90000,
			TuitionYear4: 90000,
			HostelYear1:  20000,
			HostelYear2:  20000,
		},
	}

	Derive(a)
	if a.Fees.TotalFee != 440000 {
		t.Errorf("totalFee without hostel: got %v, want 440000", a.Fees.TotalFee)
	}

	a.Fees.HostelIncluded = true
	Derive(a)
	if a.Fees.TotalFee != 480000 {
		t.Errorf("totalFee with hostel: got %v, want 480000", a.Fees.TotalFee)
	}
}

func TestDeriveServiceCharge(t *testing.T) {
	a := &models.Admission{
		ServiceCharge: models.ServiceCharge{
			Agreed:              75000,
			ReceivedFromCollege: 20000,
			DeductedFromStudent: 30000,
			DeductedByAgent:     10000,
			PaidBackToCollege:   15000,
		},
	}

	Derive(a)

	if a.ServiceCharge.Received != 45000 {
		t.Errorf("received: got %v, want 45000", a.ServiceCharge.Received)
	}
	if a.ServiceCharge.Due != 30000 {
		t.Errorf("due: got %v, want 30000", a.ServiceCharge.Due)
	}
}

func TestDeriveDuesClampToZero(t *testing.T) {
	a := &models.Admission{
		Fees: models.Fees{OfferedFee: 100000},
		ServiceCharge: models.ServiceCharge{
			Agreed:              10000,
			ReceivedFromCollege: 25000, // over-collected
		},
		CollegePayment: models.CollegePayment{
			TotalDueToCollege: 50000,
			PaidToCollege:     80000, // over-paid
		},
		PaymentSummary: models.PaymentSummary{StudentPaid: 150000}, // over-paid
	}

	Derive(a)

	if a.ServiceCharge.Due != 0 {
		t.Errorf("serviceCharge.due: got %v, want 0", a.ServiceCharge.Due)
	}
	if a.CollegePayment.BalanceDueToCollege != 0 {
		t.Errorf("balanceDueToCollege: got %v, want 0", a.CollegePayment.BalanceDueToCollege)
	}
	if a.PaymentSummary.StudentDue != 0 {
		t.Errorf("studentDue: got %v, want 0", a.PaymentSummary.StudentDue)
	}
}

func TestDeriveStudentDue(t *testing.T) {
	a := &models.Admission{
		Fees:           models.Fees{OfferedFee: 300000},
		PaymentSummary: models.PaymentSummary{StudentPaid: 120000},
	}

	Derive(a)

	if a.PaymentSummary.StudentDue != 180000 {
		t.Errorf("studentDue: got %v, want 180000", a.PaymentSummary.StudentDue)
	}
}

func TestTotalAgentFeeLegacyFallback(t *testing.T) {
	agentID := 7

	legacy := &models.Admission{
		Agent: &models.LegacyAgent{AgentType: models.AgentMain, AgentID: &agentID, AgentFee: 25000},
	}
	if got := TotalAgentFee(legacy); got != 25000 {
		t.Errorf("legacy agent fee: got %v, want 25000", got)
	}

	multi := &models.Admission{
		Agent: &models.LegacyAgent{AgentFee: 25000}, // must be ignored
		Agents: &models.Agents{
			MainAgent:    models.AgentSlot{AgentFee: 30000},
			CollegeAgent: models.AgentSlot{AgentFee: 5000},
			SubAgent:     models.AgentSlot{AgentFee: 5000},
		},
	}
	if got := TotalAgentFee(multi); got != 40000 {
		t.Errorf("multi agent fee: got %v, want 40000", got)
	}

	none := &models.Admission{}
	if got := TotalAgentFee(none); got != 0 {
		t.Errorf("no agent fee: got %v, want 0", got)
	}
}

func TestDeriveAgentDueAndRollups(t *testing.T) {
	a := &models.Admission{
		Agents: &models.Agents{
			MainAgent:    models.AgentSlot{AgentFee: 30000},
			CollegeAgent: models.AgentSlot{AgentFee: 10000},
		},
		PaymentSummary: models.PaymentSummary{AgentPaid: 15000},
	}

	Derive(a)

	if a.Agents.TotalAgentFee != 40000 {
		t.Errorf("totalAgentFee: got %v, want 40000", a.Agents.TotalAgentFee)
	}
	if a.Agents.TotalAgentFeePaid != 15000 {
		t.Errorf("totalAgentFeePaid: got %v, want 15000", a.Agents.TotalAgentFeePaid)
	}
	if a.Agents.TotalAgentFeeDue != 25000 {
		t.Errorf("totalAgentFeeDue: got %v, want 25000", a.Agents.TotalAgentFeeDue)
	}
	if a.PaymentSummary.AgentDue != 25000 {
		t.Errorf("paymentSummary.agentDue: got %v, want 25000", a.PaymentSummary.AgentDue)
	}
}

func TestAgentAllocationsNormalized(t *testing.T) {
	mainID, subID := 1, 2
	a := &models.Admission{
		Agents: &models.Agents{
			MainAgent: models.AgentSlot{AgentID: &mainID, AgentFee: 30000, FeePaid: 10000},
			SubAgent:  models.AgentSlot{AgentID: &subID, AgentFee: 5000},
		},
	}

	allocs := AgentAllocations(a)
	if len(allocs) != 2 {
		t.Fatalf("allocations: got %d, want 2 (empty college slot omitted)", len(allocs))
	}
	if allocs[0].Role != models.AgentMain || allocs[0].AgentFee != 30000 {
		t.Errorf("main allocation: got %+v", allocs[0])
	}
	if allocs[1].Role != models.AgentSub {
		t.Errorf("sub allocation: got %+v", allocs[1])
	}

	legacyID := 9
	legacy := &models.Admission{
		Agent: &models.LegacyAgent{AgentType: models.AgentCollege, AgentID: &legacyID, AgentFee: 12000},
	}
	allocs = AgentAllocations(legacy)
	if len(allocs) != 1 || allocs[0].Role != models.AgentCollege || allocs[0].AgentFee != 12000 {
		t.Errorf("legacy allocation: got %+v", allocs)
	}

	if got := AgentAllocations(&models.Admission{}); got != nil {
		t.Errorf("no agents: got %+v, want nil", got)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	a := &models.Admission{
		Fees:          models.Fees{OfferedFee: 200000, AdmissionFee: 5000},
		ServiceCharge: models.ServiceCharge{Agreed: 50000, DeductedFromStudent: 20000},
		CollegePayment: models.CollegePayment{
			TotalDueToCollege: 80000,
			PaidToCollege:     30000,
		},
		PaymentSummary: models.PaymentSummary{StudentPaid: 100000},
	}

	Derive(a)
	first := *a
	Derive(a)

	if *a != first {
		t.Errorf("second Derive changed the admission:\nfirst:  %+v\nsecond: %+v", first, *a)
	}
}
