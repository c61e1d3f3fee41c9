package finance

import (
	"testing"

	"admission-backend/internal/models"
)

func TestClassifyStudentToConsultancy(t *testing.T) {
	tests := []struct {
		name         string
		in           ClassifyInput
		wantDeducted float64
		wantDue      float64
	}{
		{
			// Spec scenario: 100,000 paid, SC due 30,000, deduction enabled.
			name: "deduction enabled takes full due",
			in: ClassifyInput{
				PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy,
				Amount: 100000, DeductServiceCharge: true, ServiceChargeDue: 30000,
			},
			wantDeducted: 30000,
			wantDue:      70000,
		},
		{
			name: "deduction disabled keeps everything due to college",
			in: ClassifyInput{
				PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy,
				Amount: 100000, ServiceChargeDue: 30000,
			},
			wantDeducted: 0,
			wantDue:      100000,
		},
		{
			name: "requested cap below due wins",
			in: ClassifyInput{
				PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy,
				Amount: 100000, DeductServiceCharge: true,
				RequestedServiceCharge: 10000, ServiceChargeDue: 30000,
			},
			wantDeducted: 10000,
			wantDue:      90000,
		},
		{
			name: "deduction capped at payment amount",
			in: ClassifyInput{
				PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy,
				Amount: 20000, DeductServiceCharge: true, ServiceChargeDue: 30000,
			},
			wantDeducted: 20000,
			wantDue:      0,
		},
		{
			name: "nothing due means nothing deducted",
			in: ClassifyInput{
				PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy,
				Amount: 50000, DeductServiceCharge: true, ServiceChargeDue: 0,
			},
			wantDeducted: 0,
			wantDue:      50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if got.Flow != FlowStudentToConsultancy {
				t.Fatalf("flow: got %s, want %s", got.Flow, FlowStudentToConsultancy)
			}
			if got.ServiceChargeDeducted != tt.wantDeducted {
				t.Errorf("serviceChargeDeducted: got %v, want %v", got.ServiceChargeDeducted, tt.wantDeducted)
			}
			if got.AmountDueToCollege != tt.wantDue {
				t.Errorf("amountDueToCollege: got %v, want %v", got.AmountDueToCollege, tt.wantDue)
			}
		})
	}
}

func TestClassifyAgentToConsultancy(t *testing.T) {
	// Spec scenario: agent transfers 115,000; agreed SC is 75,000 of which
	// the agent's own fee is 40,000. The transfer embeds the consultancy's
	// 35,000 portion; the remaining 80,000 is owed to the college.
	got := Classify(ClassifyInput{
		PayerType: models.PayerAgent, ReceiverType: models.ReceiverConsultancy,
		Amount:              115000,
		ServiceChargeAgreed: 75000,
		TotalAgentFee:       40000,
		DeductAgentFee:      true,
		RequestedAgentFee:   40000,
	})

	if got.Flow != FlowAgentToConsultancy {
		t.Fatalf("flow: got %s", got.Flow)
	}
	if got.ServiceChargeDeducted != 35000 {
		t.Errorf("serviceChargeDeducted: got %v, want 35000", got.ServiceChargeDeducted)
	}
	if got.AmountDueToCollege != 80000 {
		t.Errorf("amountDueToCollege: got %v, want 80000", got.AmountDueToCollege)
	}
	if got.AgentFeeDeducted != 40000 {
		t.Errorf("agentFeeDeducted: got %v, want 40000", got.AgentFeeDeducted)
	}
	if got.AmountTransferredToConsultancy != 115000 {
		t.Errorf("amountTransferredToConsultancy: got %v, want 115000", got.AmountTransferredToConsultancy)
	}
}

func TestClassifyAgentToConsultancySmallTransfer(t *testing.T) {
	// Transfer smaller than the consultancy's SC portion: the whole
	// transfer is kept as service charge and nothing goes to the college.
	got := Classify(ClassifyInput{
		PayerType: models.PayerAgent, ReceiverType: models.ReceiverConsultancy,
		Amount:              20000,
		ServiceChargeAgreed: 75000,
		TotalAgentFee:       40000,
	})

	if got.ServiceChargeDeducted != 20000 {
		t.Errorf("serviceChargeDeducted: got %v, want 20000", got.ServiceChargeDeducted)
	}
	if got.AmountDueToCollege != 0 {
		t.Errorf("amountDueToCollege: got %v, want 0", got.AmountDueToCollege)
	}
	if got.AgentFeeDeducted != 0 {
		t.Errorf("agentFeeDeducted without flag: got %v, want 0", got.AgentFeeDeducted)
	}
}

func TestClassifyAgentFeeExceedsAgreed(t *testing.T) {
	// Agent fee above the agreed service charge leaves no consultancy
	// portion; the full transfer is due to the college.
	got := Classify(ClassifyInput{
		PayerType: models.PayerAgent, ReceiverType: models.ReceiverConsultancy,
		Amount:              50000,
		ServiceChargeAgreed: 30000,
		TotalAgentFee:       45000,
	})

	if got.ServiceChargeDeducted != 0 {
		t.Errorf("serviceChargeDeducted: got %v, want 0", got.ServiceChargeDeducted)
	}
	if got.AmountDueToCollege != 50000 {
		t.Errorf("amountDueToCollege: got %v, want 50000", got.AmountDueToCollege)
	}
}

func TestClassifyStudentToAgent(t *testing.T) {
	got := Classify(ClassifyInput{
		PayerType: models.PayerStudent, ReceiverType: models.ReceiverAgent,
		Amount: 60000, ServiceChargeDue: 30000, DeductServiceCharge: true,
	})

	if got.Flow != FlowStudentToAgent {
		t.Fatalf("flow: got %s", got.Flow)
	}
	// College due is deferred until the agent transfers.
	if got.ServiceChargeDeducted != 0 || got.AmountDueToCollege != 0 || got.AgentFeeDeducted != 0 {
		t.Errorf("student->agent must defer all derivation, got %+v", got)
	}
}

func TestClassifyCollegeServiceCharge(t *testing.T) {
	got := Classify(ClassifyInput{
		PayerType: models.PayerCollege, ReceiverType: models.ReceiverConsultancy,
		Amount: 25000, IsServiceChargePayment: true,
	})

	if got.Flow != FlowCollegeServiceCharge {
		t.Fatalf("flow: got %s", got.Flow)
	}
	if got.AmountDueToCollege != 0 {
		t.Errorf("college SC payment owes nothing onward, got %v", got.AmountDueToCollege)
	}
}

func TestClassifyConsultancyToAgent(t *testing.T) {
	agentID := 11
	got := Classify(ClassifyInput{
		PayerType: models.PayerConsultancy, ReceiverType: models.ReceiverAgent,
		Amount: 15000, AgentIDForFeePayment: &agentID,
	})

	if got.Flow != FlowConsultancyToAgent {
		t.Fatalf("flow: got %s", got.Flow)
	}
	if got.PaidToAgentID == nil || *got.PaidToAgentID != agentID {
		t.Errorf("paidToAgentId: got %v, want %d", got.PaidToAgentID, agentID)
	}
}

func TestClassifyConsultancyToCollege(t *testing.T) {
	got := Classify(ClassifyInput{
		PayerType: models.PayerConsultancy, ReceiverType: models.ReceiverCollege,
		Amount: 70000,
	})

	if got.Flow != FlowConsultancyToCollege {
		t.Fatalf("flow: got %s", got.Flow)
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// The SC-payment and agent-collection flags disqualify the direct
	// student flow even for a Student->Consultancy pair.
	got := Classify(ClassifyInput{
		PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy,
		Amount: 10000, IsAgentCollection: true,
	})
	if got.Flow != FlowOther {
		t.Errorf("agent-collection student payment: got %s, want %s", got.Flow, FlowOther)
	}
}
