package finance

import "admission-backend/internal/models"

// Flow is a recognized money-movement pattern. Classification is by
// precedence; the first matching flow wins.
type Flow string

const (
	FlowStudentToConsultancy Flow = "student_to_consultancy"
	FlowAgentToConsultancy   Flow = "agent_to_consultancy"
	FlowStudentToAgent       Flow = "student_to_agent"
	FlowCollegeServiceCharge Flow = "college_service_charge"
	FlowConsultancyToAgent   Flow = "consultancy_to_agent"
	FlowConsultancyToCollege Flow = "consultancy_to_college"
	FlowOther                Flow = "other"
)

// ClassifyInput is everything the classifier needs about one incoming
// payment and the owning admission's current financial state.
type ClassifyInput struct {
	PayerType    models.PayerType
	ReceiverType models.ReceiverType
	Amount       float64

	IsServiceChargePayment bool
	IsAgentCollection      bool
	DeductServiceCharge    bool
	RequestedServiceCharge float64 // optional client cap on the deduction
	DeductAgentFee         bool
	RequestedAgentFee      float64

	ServiceChargeDue    float64 // admission.serviceCharge.due
	ServiceChargeAgreed float64 // admission.serviceCharge.agreed
	TotalAgentFee       float64 // committed agent fee (legacy-aware)

	AgentIDForFeePayment *int
}

// ClassifyResult carries the per-transaction derived fields.
type ClassifyResult struct {
	Flow                           Flow
	ServiceChargeDeducted          float64
	AmountDueToCollege             float64
	AgentFeeDeducted               float64
	AmountTransferredToConsultancy float64
	PaidToAgentID                  *int
}

// Classify determines the payment's flow pattern and computes the derived
// amounts for that single transaction. Aggregate effects (what the
// admission summary looks like afterwards) are the recompute's job.
func Classify(in ClassifyInput) ClassifyResult {
	switch {
	case in.PayerType == models.PayerStudent && in.ReceiverType == models.ReceiverConsultancy &&
		!in.IsServiceChargePayment && !in.IsAgentCollection:
		return classifyStudentToConsultancy(in)

	case in.PayerType == models.PayerAgent && in.ReceiverType == models.ReceiverConsultancy:
		return classifyAgentToConsultancy(in)

	case in.PayerType == models.PayerStudent && in.ReceiverType == models.ReceiverAgent:
		// Money is parked with the agent; the college due is computed
		// when the agent transfers it on.
		return ClassifyResult{Flow: FlowStudentToAgent}

	case in.PayerType == models.PayerCollege && in.ReceiverType == models.ReceiverConsultancy &&
		in.IsServiceChargePayment:
		// Entire amount is service charge income; nothing owed onward.
		return ClassifyResult{Flow: FlowCollegeServiceCharge}

	case in.PayerType == models.PayerConsultancy && in.ReceiverType == models.ReceiverAgent:
		return ClassifyResult{Flow: FlowConsultancyToAgent, PaidToAgentID: in.AgentIDForFeePayment}

	case in.PayerType == models.PayerConsultancy && in.ReceiverType == models.ReceiverCollege:
		// Reduces balanceDueToCollege; recompute picks it up.
		return ClassifyResult{Flow: FlowConsultancyToCollege}
	}

	return ClassifyResult{Flow: FlowOther}
}

func classifyStudentToConsultancy(in ClassifyInput) ClassifyResult {
	var deducted float64
	if in.DeductServiceCharge && in.ServiceChargeDue > 0 {
		if in.RequestedServiceCharge > 0 {
			deducted = min3(in.RequestedServiceCharge, in.ServiceChargeDue, in.Amount)
		} else {
			deducted = min2(in.ServiceChargeDue, in.Amount)
		}
	}
	return ClassifyResult{
		Flow:                  FlowStudentToConsultancy,
		ServiceChargeDeducted: deducted,
		AmountDueToCollege:    in.Amount - deducted,
	}
}

func classifyAgentToConsultancy(in ClassifyInput) ClassifyResult {
	var agentFee float64
	if in.DeductAgentFee && in.RequestedAgentFee > 0 {
		agentFee = in.RequestedAgentFee
	}

	// The agent already netted out their own commission; the consultancy's
	// remaining service-charge portion is embedded in the transfer and is
	// extracted arithmetically rather than requested explicitly.
	consultancyPortion := clamp(in.ServiceChargeAgreed - in.TotalAgentFee)
	deducted := min2(consultancyPortion, in.Amount)

	return ClassifyResult{
		Flow:                           FlowAgentToConsultancy,
		ServiceChargeDeducted:          deducted,
		AmountDueToCollege:             clamp(in.Amount - deducted),
		AgentFeeDeducted:               agentFee,
		AmountTransferredToConsultancy: in.Amount,
	}
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func min3(a, b, c float64) float64 {
	return min2(a, min2(b, c))
}
