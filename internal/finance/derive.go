// Package finance holds the pure reconciliation math: fee derivation, the
// payment flow classifier, and the summary recomputation. Nothing here
// touches the datastore, so every rule is testable in isolation.
package finance

import "admission-backend/internal/models"

// Derive overwrites every derived financial field on the admission from its
// base fields. It runs on every admission write path; the derived fields are
// never independently settable.
func Derive(a *models.Admission) {
	f := &a.Fees
	f.TotalFee = f.OfferedFee + f.AdmissionFee +
		f.TuitionYear1 + f.TuitionYear2 + f.TuitionYear3 + f.TuitionYear4
	if f.HostelIncluded {
		f.TotalFee += f.HostelYear1 + f.HostelYear2 + f.HostelYear3 + f.HostelYear4
	}

	// Net service charge: deducting money and then paying it back to the
	// college cancels out.
	sc := &a.ServiceCharge
	gross := sc.ReceivedFromCollege + sc.DeductedFromStudent + sc.DeductedByAgent
	sc.Received = clamp(gross - sc.PaidBackToCollege)
	sc.Due = clamp(sc.Agreed - sc.Received)

	cp := &a.CollegePayment
	cp.BalanceDueToCollege = clamp(cp.TotalDueToCollege - cp.PaidToCollege)

	ps := &a.PaymentSummary
	ps.StudentDue = clamp(f.TotalFee - ps.StudentPaid)
	ps.AgentDue = clamp(TotalAgentFee(a) - ps.AgentPaid)

	if a.Agents != nil {
		ag := a.Agents
		ag.TotalAgentFee = ag.MainAgent.AgentFee + ag.CollegeAgent.AgentFee + ag.SubAgent.AgentFee
		ag.TotalAgentFeePaid = ps.AgentPaid
		ag.TotalAgentFeeDue = clamp(ag.TotalAgentFee - ag.TotalAgentFeePaid)
	}
}

// TotalAgentFee resolves the committed agent fee, honoring the legacy single
// agent field only when the multi-agent structure is absent.
func TotalAgentFee(a *models.Admission) float64 {
	if a.Agents != nil {
		return a.Agents.MainAgent.AgentFee + a.Agents.CollegeAgent.AgentFee + a.Agents.SubAgent.AgentFee
	}
	if a.Agent != nil {
		return a.Agent.AgentFee
	}
	return 0
}

// AgentAllocation is the normalized view over both agent eras.
type AgentAllocation struct {
	Role     models.AgentType
	AgentID  *int
	AgentFee float64
	FeePaid  float64
	FeeDue   float64
}

// AgentAllocations returns the admission's agent attributions as one list,
// resolving legacy-vs-new at read time. Slots with no agent and no fee are
// omitted.
func AgentAllocations(a *models.Admission) []AgentAllocation {
	if a.Agents != nil {
		slots := []struct {
			role models.AgentType
			slot models.AgentSlot
		}{
			{models.AgentMain, a.Agents.MainAgent},
			{models.AgentCollege, a.Agents.CollegeAgent},
			{models.AgentSub, a.Agents.SubAgent},
		}
		var out []AgentAllocation
		for _, s := range slots {
			if s.slot.AgentID == nil && s.slot.AgentFee == 0 {
				continue
			}
			out = append(out, AgentAllocation{
				Role:     s.role,
				AgentID:  s.slot.AgentID,
				AgentFee: s.slot.AgentFee,
				FeePaid:  s.slot.FeePaid,
				FeeDue:   s.slot.FeeDue,
			})
		}
		return out
	}
	if a.Agent != nil && (a.Agent.AgentID != nil || a.Agent.AgentFee > 0) {
		return []AgentAllocation{{
			Role:     a.Agent.AgentType,
			AgentID:  a.Agent.AgentID,
			AgentFee: a.Agent.AgentFee,
		}}
	}
	return nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
