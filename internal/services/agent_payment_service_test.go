package services

import (
	"context"
	"strings"
	"testing"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"
)

type fakeAgentPaymentStore struct {
	nextID   int
	payments map[int]*models.AgentPayment
	linked   map[int]int
}

func newFakeAgentPaymentStore() *fakeAgentPaymentStore {
	return &fakeAgentPaymentStore{
		payments: make(map[int]*models.AgentPayment),
		linked:   make(map[int]int),
	}
}

func (f *fakeAgentPaymentStore) Create(ctx context.Context, p *models.AgentPayment) error {
	f.nextID++
	p.ID = f.nextID
	f.payments[p.ID] = p
	return nil
}

func (f *fakeAgentPaymentStore) Get(ctx context.Context, id int) (*models.AgentPayment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperrors.NotFound("agent payment %d not found", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeAgentPaymentStore) List(ctx context.Context, fl *models.AgentPaymentFilter) ([]*models.AgentPayment, int, error) {
	return nil, 0, nil
}

func (f *fakeAgentPaymentStore) Update(ctx context.Context, p *models.AgentPayment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakeAgentPaymentStore) SoftDelete(ctx context.Context, id, deletedBy int) error {
	delete(f.payments, id)
	return nil
}

func (f *fakeAgentPaymentStore) SetVoucherID(ctx context.Context, paymentID, voucherID int) error {
	f.linked[paymentID] = voucherID
	return nil
}

type fakeAgentGetter struct {
	agents map[int]*models.Agent
}

func (f *fakeAgentGetter) Get(ctx context.Context, id int) (*models.Agent, error) {
	a, ok := f.agents[id]
	if !ok {
		return nil, apperrors.NotFound("agent %d not found", id)
	}
	return a, nil
}

type fakeAgentPaymentDaybook struct {
	entries []*models.DaybookEntry
	retired []int
}

func (f *fakeAgentPaymentDaybook) Create(ctx context.Context, e *models.DaybookEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAgentPaymentDaybook) SoftDeleteByAgentPayment(ctx context.Context, agentPaymentID, deletedBy int) error {
	f.retired = append(f.retired, agentPaymentID)
	return nil
}

type agentPaymentFixture struct {
	svc      *AgentPaymentService
	payments *fakeAgentPaymentStore
	agents   *fakeAgentGetter
	vouchers *fakeVoucherMinter
	daybook  *fakeAgentPaymentDaybook
	cashbook *fakeCashAppender
	summary  *fakeRecomputer
}

func newAgentPaymentFixture() *agentPaymentFixture {
	f := &agentPaymentFixture{
		payments: newFakeAgentPaymentStore(),
		agents: &fakeAgentGetter{agents: map[int]*models.Agent{
			3: {ID: 3, Name: "Sunil Mehta", AgentType: models.AgentMain},
		}},
		vouchers: &fakeVoucherMinter{},
		daybook:  &fakeAgentPaymentDaybook{},
		cashbook: &fakeCashAppender{},
		summary:  &fakeRecomputer{},
	}
	admissions := &fakeAdmissionStore{admissions: map[int]*models.Admission{7: testAdmission()}}
	f.svc = NewAgentPaymentService(f.payments, admissions, f.agents, f.vouchers, f.daybook, f.cashbook, f.summary, nil)
	return f
}

func TestAgentPaymentCreate(t *testing.T) {
	f := newAgentPaymentFixture()

	p, err := f.svc.Create(context.Background(), &models.CreateAgentPaymentRequest{
		AdmissionID: 7,
		AgentID:     3,
		Amount:      8000,
		PaymentMode: models.ModeCash,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.BranchID != 2 {
		t.Errorf("branch not defaulted from admission: got %d", p.BranchID)
	}

	if len(f.vouchers.minted) != 1 {
		t.Fatalf("vouchers minted = %d, want 1", len(f.vouchers.minted))
	}
	v := f.vouchers.minted[0]
	if v.PartyName != "Sunil Mehta" {
		t.Errorf("party name = %q, want agent name", v.PartyName)
	}
	if !strings.Contains(v.Description, "Sunil Mehta") {
		t.Errorf("voucher description should name the agent: %q", v.Description)
	}

	if len(f.daybook.entries) != 1 || f.daybook.entries[0].Category != models.CategoryPaidToAgent {
		t.Errorf("daybook entries = %+v", f.daybook.entries)
	}
	if len(f.cashbook.entries) != 1 || f.cashbook.entries[0].Debited != 8000 {
		t.Errorf("cashbook entries = %+v", f.cashbook.entries)
	}
	if len(f.summary.calls) != 1 || f.summary.calls[0] != 7 {
		t.Errorf("recompute calls = %v, want [7]", f.summary.calls)
	}
}

func TestAgentPaymentCreateMissingAgent(t *testing.T) {
	f := newAgentPaymentFixture()

	_, err := f.svc.Create(context.Background(), &models.CreateAgentPaymentRequest{
		AdmissionID: 7,
		AgentID:     999,
		Amount:      8000,
		PaymentMode: models.ModeCash,
	}, 11)
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(f.payments.payments) != 0 {
		t.Errorf("payment recorded despite missing agent")
	}
	if len(f.vouchers.minted) != 0 || len(f.summary.calls) != 0 {
		t.Errorf("side effects ran despite missing agent")
	}
}

func TestAgentPaymentCreateRecomputeFailureDoesNotFailPayment(t *testing.T) {
	f := newAgentPaymentFixture()
	f.summary.err = apperrors.NotFound("admission vanished")

	p, err := f.svc.Create(context.Background(), &models.CreateAgentPaymentRequest{
		AdmissionID: 7,
		AgentID:     3,
		Amount:      2000,
		PaymentMode: models.ModeUPI,
	}, 11)
	if err != nil {
		t.Fatalf("Create must not surface a recompute failure: %v", err)
	}
	if p == nil || p.ID == 0 {
		t.Fatalf("created payment not returned")
	}
}
