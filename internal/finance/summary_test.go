package finance

import (
	"testing"

	"admission-backend/internal/models"
)

func TestSummarizeStudentAndAgentRollups(t *testing.T) {
	a := &models.Admission{
		Fees: models.Fees{OfferedFee: 500000},
		Agents: &models.Agents{
			MainAgent: models.AgentSlot{AgentFee: 40000},
		},
		ServiceCharge: models.ServiceCharge{Agreed: 75000},
	}

	Summarize(a, FlowTotals{
		StudentToConsultancy: 100000,
		StudentToAgent:       115000,
		StudentToCollege:     50000,
		AgentFeeDeducted:     40000,
		PaidToAgent:          5000,
		LegacyAgentPaid:      2000,
	})

	if a.PaymentSummary.StudentPaid != 265000 {
		t.Errorf("studentPaid: got %v, want 265000", a.PaymentSummary.StudentPaid)
	}
	if a.PaymentSummary.StudentDue != 235000 {
		t.Errorf("studentDue: got %v, want 235000", a.PaymentSummary.StudentDue)
	}
	if a.PaymentSummary.AgentPaid != 47000 {
		t.Errorf("agentPaid: got %v, want 47000", a.PaymentSummary.AgentPaid)
	}
}

func TestSummarizePaidBackToCollegeBounds(t *testing.T) {
	tests := []struct {
		name   string
		totals FlowTotals
		want   float64
	}{
		{
			// Paid the college exactly the tracked due: nothing counts as
			// returning withheld service charge.
			name: "payments within due pool",
			totals: FlowTotals{
				ServiceChargeDeducted: 30000,
				AmountDueToCollege:    70000,
				PaidToCollege:         70000,
			},
			want: 0,
		},
		{
			// Paid 20k beyond the due pool with 30k withheld: 20k of the
			// withheld charge went back.
			name: "excess attributed to withheld charge",
			totals: FlowTotals{
				ServiceChargeDeducted: 30000,
				AmountDueToCollege:    70000,
				PaidToCollege:         90000,
			},
			want: 20000,
		},
		{
			// Excess beyond what was ever withheld cannot be "paid back".
			name: "excess capped at total deducted",
			totals: FlowTotals{
				ServiceChargeDeducted: 10000,
				AgentFeeDeducted:      5000,
				AmountDueToCollege:    50000,
				PaidToCollege:         100000,
			},
			want: 15000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.Admission{}
			Summarize(a, tt.totals)
			if a.ServiceCharge.PaidBackToCollege != tt.want {
				t.Errorf("paidBackToCollege: got %v, want %v", a.ServiceCharge.PaidBackToCollege, tt.want)
			}
		})
	}
}

func TestSummarizeServiceChargeInvariant(t *testing.T) {
	// After any recompute, due == max(0, agreed - received).
	a := &models.Admission{
		ServiceCharge: models.ServiceCharge{Agreed: 75000},
	}

	Summarize(a, FlowTotals{
		ServiceChargeFromCollege: 10000,
		ServiceChargeDeducted:    35000,
		AgentFeeDeducted:         40000,
		AmountDueToCollege:       80000,
		PaidToCollege:            80000,
	})

	if a.ServiceCharge.Received != 85000 {
		t.Errorf("received: got %v, want 85000", a.ServiceCharge.Received)
	}
	if a.ServiceCharge.Due != 0 {
		t.Errorf("due: got %v, want 0", a.ServiceCharge.Due)
	}

	wantDue := clamp(a.ServiceCharge.Agreed - a.ServiceCharge.Received)
	if a.ServiceCharge.Due != wantDue {
		t.Errorf("due invariant broken: got %v, want %v", a.ServiceCharge.Due, wantDue)
	}
}

func TestSummarizeCollegeBalance(t *testing.T) {
	a := &models.Admission{}

	Summarize(a, FlowTotals{
		AmountDueToCollege: 150000,
		PaidToCollege:      60000,
	})

	if a.CollegePayment.TotalDueToCollege != 150000 {
		t.Errorf("totalDueToCollege: got %v", a.CollegePayment.TotalDueToCollege)
	}
	if a.CollegePayment.BalanceDueToCollege != 90000 {
		t.Errorf("balanceDueToCollege: got %v, want 90000", a.CollegePayment.BalanceDueToCollege)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	totals := FlowTotals{
		StudentToConsultancy:  100000,
		AgentToConsultancy:    115000,
		ServiceChargeDeducted: 65000,
		AgentFeeDeducted:      40000,
		AmountDueToCollege:    150000,
		PaidToCollege:         100000,
		LegacyAgentPaid:       3000,
	}

	a := &models.Admission{
		Fees:          models.Fees{OfferedFee: 400000},
		ServiceCharge: models.ServiceCharge{Agreed: 75000},
	}

	Summarize(a, totals)
	first := *a
	Summarize(a, totals)

	if *a != first {
		t.Errorf("second Summarize changed the admission:\nfirst:  %+v\nsecond: %+v", first, *a)
	}
}

func TestSummarizeAfterDeletedPayment(t *testing.T) {
	// Spec scenario: a 50,000 payment previously counted in studentPaid is
	// deleted; the recompute sees reduced totals and studentDue grows back.
	a := &models.Admission{Fees: models.Fees{OfferedFee: 300000}}

	Summarize(a, FlowTotals{StudentToConsultancy: 150000})
	if a.PaymentSummary.StudentPaid != 150000 || a.PaymentSummary.StudentDue != 150000 {
		t.Fatalf("before delete: paid %v due %v", a.PaymentSummary.StudentPaid, a.PaymentSummary.StudentDue)
	}

	Summarize(a, FlowTotals{StudentToConsultancy: 100000})
	if a.PaymentSummary.StudentPaid != 100000 {
		t.Errorf("studentPaid after delete: got %v, want 100000", a.PaymentSummary.StudentPaid)
	}
	if a.PaymentSummary.StudentDue != 200000 {
		t.Errorf("studentDue after delete: got %v, want 200000", a.PaymentSummary.StudentDue)
	}
}
