package finance

import "admission-backend/internal/models"

// FlowTotals are the per-flow sums over all non-deleted payments of one
// admission, plus the legacy agent-payment total. Each field maps to one
// named repository query.
type FlowTotals struct {
	StudentToConsultancy     float64 // Student -> Consultancy
	StudentToAgent           float64 // Student -> Agent (agent collection)
	StudentToCollege         float64 // Student -> College (direct)
	AgentToConsultancy       float64 // Agent -> Consultancy transfers
	PaidToCollege            float64 // Consultancy -> College
	PaidToAgent              float64 // Consultancy -> Agent
	ServiceChargeFromCollege float64 // College -> Consultancy with SC flag
	ServiceChargeDeducted    float64 // sum of per-payment serviceChargeDeducted
	AgentFeeDeducted         float64 // sum of per-payment agentFeeDeducted
	AmountDueToCollege       float64 // sum of per-payment amountDueToCollege
	LegacyAgentPaid          float64 // sum over AgentPayment rows
}

// Summarize rewrites the admission's denormalized summary from the flow
// totals and re-derives the dependent fields. Calling it twice with the
// same totals yields identical output.
func Summarize(a *models.Admission, t FlowTotals) {
	// Everything the student has put toward their fee, regardless of who
	// held the money first.
	a.PaymentSummary.StudentPaid = t.StudentToConsultancy + t.StudentToAgent + t.StudentToCollege

	// The agent is "paid" by fee deduction at transfer time, by direct
	// consultancy payment, or through legacy agent-payment rows.
	a.PaymentSummary.AgentPaid = t.AgentFeeDeducted + t.PaidToAgent + t.LegacyAgentPaid

	a.ServiceCharge.ReceivedFromCollege = t.ServiceChargeFromCollege
	a.ServiceCharge.DeductedFromStudent = t.ServiceChargeDeducted
	a.ServiceCharge.DeductedByAgent = t.AgentFeeDeducted

	// College payments beyond the tracked due-to-college pool are treated
	// as returning previously withheld service charge, never exceeding
	// what was withheld.
	totalDeducted := t.ServiceChargeDeducted + t.AgentFeeDeducted
	paidFromServiceCharge := clamp(t.PaidToCollege - t.AmountDueToCollege)
	a.ServiceCharge.PaidBackToCollege = min2(paidFromServiceCharge, totalDeducted)

	a.CollegePayment.TotalDueToCollege = t.AmountDueToCollege
	a.CollegePayment.PaidToCollege = t.PaidToCollege

	Derive(a)
}
