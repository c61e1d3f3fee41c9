package services

import (
	"context"
	"strings"
	"testing"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"
)

type fakeAdmissionStore struct {
	admissions map[int]*models.Admission
	updated    []*models.Admission
}

func (f *fakeAdmissionStore) Create(ctx context.Context, a *models.Admission) error { return nil }

func (f *fakeAdmissionStore) Get(ctx context.Context, id int) (*models.Admission, error) {
	a, ok := f.admissions[id]
	if !ok {
		return nil, apperrors.NotFound("admission %d not found", id)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAdmissionStore) List(ctx context.Context, fl *models.AdmissionFilter) ([]*models.Admission, int, error) {
	return nil, 0, nil
}

func (f *fakeAdmissionStore) Update(ctx context.Context, a *models.Admission) error {
	f.updated = append(f.updated, a)
	return nil
}

func (f *fakeAdmissionStore) UpdateSummary(ctx context.Context, a *models.Admission) error {
	f.updated = append(f.updated, a)
	return nil
}

func (f *fakeAdmissionStore) SoftDelete(ctx context.Context, id, deletedBy int) error { return nil }

type fakePaymentStore struct {
	nextID   int
	payments map[int]*models.Payment
	byRef    map[string]*models.PaymentPreview
	deleted  []int
	linked   map[int]int
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{
		payments: make(map[int]*models.Payment),
		byRef:    make(map[string]*models.PaymentPreview),
		linked:   make(map[int]int),
	}
}

func (f *fakePaymentStore) Create(ctx context.Context, p *models.Payment) error {
	f.nextID++
	p.ID = f.nextID
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentStore) Get(ctx context.Context, id int) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperrors.NotFound("payment %d not found", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePaymentStore) List(ctx context.Context, fl *models.PaymentFilter) ([]*models.Payment, int, error) {
	return nil, 0, nil
}

func (f *fakePaymentStore) Update(ctx context.Context, p *models.Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentStore) SoftDelete(ctx context.Context, id, deletedBy int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePaymentStore) SetVoucherID(ctx context.Context, paymentID, voucherID int) error {
	f.linked[paymentID] = voucherID
	return nil
}

func (f *fakePaymentStore) FindByTransactionRef(ctx context.Context, ref string) (*models.PaymentPreview, error) {
	return f.byRef[ref], nil
}

type fakeVoucherMinter struct {
	minted  []*models.Voucher
	retired []int
	fail    bool
}

func (f *fakeVoucherMinter) CreateWithNumber(ctx context.Context, v *models.Voucher) error {
	if f.fail {
		return apperrors.Conflict("voucher number collision")
	}
	v.ID = len(f.minted) + 1
	v.VoucherNo = "V-TEST"
	f.minted = append(f.minted, v)
	return nil
}

func (f *fakeVoucherMinter) SoftDelete(ctx context.Context, id, deletedBy int) error {
	f.retired = append(f.retired, id)
	return nil
}

type fakeDaybookWriter struct {
	entries []*models.DaybookEntry
	retired []int
}

func (f *fakeDaybookWriter) Create(ctx context.Context, e *models.DaybookEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeDaybookWriter) SoftDeleteByPayment(ctx context.Context, paymentID, deletedBy int) error {
	f.retired = append(f.retired, paymentID)
	return nil
}

type fakeCashAppender struct {
	entries []*models.CashbookEntry
}

func (f *fakeCashAppender) Append(ctx context.Context, e *models.CashbookEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeRecomputer struct {
	calls []int
	err   error
}

func (f *fakeRecomputer) Recompute(ctx context.Context, admissionID int) error {
	f.calls = append(f.calls, admissionID)
	return f.err
}

func testAdmission() *models.Admission {
	return &models.Admission{
		ID:          7,
		AdmissionNo: "ADM-2026-00007",
		BranchID:    2,
		Student:     models.Student{FirstName: "Ravi", LastName: "Kumar", Phone: "9876543210"},
		ServiceCharge: models.ServiceCharge{
			Agreed: 50000,
			Due:    50000,
		},
	}
}

type paymentFixture struct {
	svc        *PaymentService
	admissions *fakeAdmissionStore
	payments   *fakePaymentStore
	vouchers   *fakeVoucherMinter
	daybook    *fakeDaybookWriter
	cashbook   *fakeCashAppender
	summary    *fakeRecomputer
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		admissions: &fakeAdmissionStore{admissions: map[int]*models.Admission{7: testAdmission()}},
		payments:   newFakePaymentStore(),
		vouchers:   &fakeVoucherMinter{},
		daybook:    &fakeDaybookWriter{},
		cashbook:   &fakeCashAppender{},
		summary:    &fakeRecomputer{},
	}
	f.svc = NewPaymentService(f.payments, f.admissions, f.vouchers, f.daybook, f.cashbook, f.summary, nil)
	return f
}

func TestPaymentCreateStudentCash(t *testing.T) {
	f := newPaymentFixture()

	p, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:         7,
		PayerType:           models.PayerStudent,
		ReceiverType:        models.ReceiverConsultancy,
		Amount:              30000,
		PaymentMode:         models.ModeCash,
		DeductServiceCharge: true,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.BranchID != 2 {
		t.Errorf("branch not defaulted from admission: got %d", p.BranchID)
	}
	if p.ServiceChargeDeducted != 30000 {
		t.Errorf("service charge deducted = %v, want 30000", p.ServiceChargeDeducted)
	}

	if len(f.vouchers.minted) != 1 {
		t.Fatalf("vouchers minted = %d, want 1", len(f.vouchers.minted))
	}
	v := f.vouchers.minted[0]
	if v.VoucherType != models.VoucherReceipt {
		t.Errorf("voucher type = %s, want receipt", v.VoucherType)
	}
	if v.PartyName != "Ravi Kumar" {
		t.Errorf("party name = %q", v.PartyName)
	}
	if p.VoucherID == nil || *p.VoucherID != v.ID {
		t.Errorf("payment not linked to voucher")
	}
	if got := f.payments.linked[p.ID]; got != v.ID {
		t.Errorf("stored voucher link = %d, want %d", got, v.ID)
	}

	if len(f.daybook.entries) != 1 {
		t.Fatalf("daybook entries = %d, want 1", len(f.daybook.entries))
	}
	d := f.daybook.entries[0]
	if d.Category != models.CategoryReceivedFromStudent || d.Type != models.DaybookIncome {
		t.Errorf("daybook categorized as %s/%s", d.Category, d.Type)
	}

	if len(f.cashbook.entries) != 1 {
		t.Fatalf("cashbook entries = %d, want 1", len(f.cashbook.entries))
	}
	if f.cashbook.entries[0].Credited != 30000 {
		t.Errorf("cashbook credited = %v, want 30000", f.cashbook.entries[0].Credited)
	}

	if len(f.summary.calls) != 1 || f.summary.calls[0] != 7 {
		t.Errorf("recompute calls = %v, want [7]", f.summary.calls)
	}
}

func TestPaymentCreateNonCashSkipsCashbook(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerStudent,
		ReceiverType: models.ReceiverConsultancy,
		Amount:       10000,
		PaymentMode:  models.ModeUPI,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.cashbook.entries) != 0 {
		t.Errorf("cashbook entries = %d, want 0 for UPI", len(f.cashbook.entries))
	}
	if len(f.daybook.entries) != 1 {
		t.Errorf("daybook entries = %d, want 1", len(f.daybook.entries))
	}
}

func TestPaymentCreateOutgoingToCollege(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerConsultancy,
		ReceiverType: models.ReceiverCollege,
		Amount:       80000,
		PaymentMode:  models.ModeCash,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.vouchers.minted[0].VoucherType != models.VoucherPayment {
		t.Errorf("voucher type = %s, want payment", f.vouchers.minted[0].VoucherType)
	}
	d := f.daybook.entries[0]
	if d.Category != models.CategoryPaidToCollege || d.Type != models.DaybookExpense {
		t.Errorf("daybook categorized as %s/%s", d.Category, d.Type)
	}
	if f.cashbook.entries[0].Debited != 80000 {
		t.Errorf("cashbook debited = %v, want 80000", f.cashbook.entries[0].Debited)
	}
}

func TestPaymentCreateStudentToAgentVoucherOnly(t *testing.T) {
	f := newPaymentFixture()

	p, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerStudent,
		ReceiverType: models.ReceiverAgent,
		Amount:       5000,
		PaymentMode:  models.ModeCash,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.vouchers.minted) != 1 {
		t.Fatalf("vouchers minted = %d, want 1", len(f.vouchers.minted))
	}
	v := f.vouchers.minted[0]
	if v.VoucherType != models.VoucherReceipt {
		t.Errorf("voucher type = %s, want receipt", v.VoucherType)
	}
	if p.VoucherID == nil || *p.VoucherID != v.ID {
		t.Errorf("payment not linked to voucher")
	}
	if len(f.daybook.entries) != 0 || len(f.cashbook.entries) != 0 {
		t.Errorf("student to agent payment must not touch consultancy books")
	}
	if len(f.summary.calls) != 1 {
		t.Errorf("recompute still runs: calls = %v", f.summary.calls)
	}
}

func TestPaymentCreateStudentToCollegeVoucherOnly(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerStudent,
		ReceiverType: models.ReceiverCollege,
		Amount:       60000,
		PaymentMode:  models.ModeBankTransfer,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.vouchers.minted) != 1 {
		t.Fatalf("vouchers minted = %d, want 1", len(f.vouchers.minted))
	}
	if len(f.daybook.entries) != 0 || len(f.cashbook.entries) != 0 {
		t.Errorf("student to college payment must not touch consultancy books")
	}
}

func TestPaymentCreateDuplicateRef(t *testing.T) {
	f := newPaymentFixture()
	f.payments.byRef["UTR123"] = &models.PaymentPreview{ID: 42, Amount: 1000}

	_, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:    7,
		PayerType:      models.PayerStudent,
		ReceiverType:   models.ReceiverConsultancy,
		Amount:         1000,
		PaymentMode:    models.ModeUPI,
		TransactionRef: "  UTR123  ",
	}, 11)
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if !strings.Contains(err.Error(), "UTR123") {
		t.Errorf("conflict message should name the reference: %q", err.Error())
	}
}

func TestPaymentCreateValidation(t *testing.T) {
	f := newPaymentFixture()

	tests := []struct {
		name  string
		req   *models.CreatePaymentRequest
		field string
	}{
		{
			name:  "missing admission",
			req:   &models.CreatePaymentRequest{PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy, Amount: 100, PaymentMode: models.ModeCash},
			field: "admission_id",
		},
		{
			name:  "zero amount",
			req:   &models.CreatePaymentRequest{AdmissionID: 7, PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy, PaymentMode: models.ModeCash},
			field: "amount",
		},
		{
			name:  "bad payer",
			req:   &models.CreatePaymentRequest{AdmissionID: 7, PayerType: "Bank", ReceiverType: models.ReceiverConsultancy, Amount: 100, PaymentMode: models.ModeCash},
			field: "payer_type",
		},
		{
			name:  "bad mode",
			req:   &models.CreatePaymentRequest{AdmissionID: 7, PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy, Amount: 100, PaymentMode: "Bitcoin"},
			field: "payment_mode",
		},
		{
			name:  "agent collection without agent",
			req:   &models.CreatePaymentRequest{AdmissionID: 7, PayerType: models.PayerStudent, ReceiverType: models.ReceiverConsultancy, Amount: 100, PaymentMode: models.ModeCash, IsAgentCollection: true},
			field: "collecting_agent_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.req, 11)
			appErr, ok := apperrors.As(err)
			if !ok || appErr.Kind != apperrors.KindValidation {
				t.Fatalf("err = %v, want validation", err)
			}
			if _, present := appErr.FieldErrors[tt.field]; !present {
				t.Errorf("field errors %v missing %q", appErr.FieldErrors, tt.field)
			}
		})
	}
}

func TestPaymentCreateVoucherFailureDoesNotAbort(t *testing.T) {
	f := newPaymentFixture()
	f.vouchers.fail = true

	p, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerStudent,
		ReceiverType: models.ReceiverConsultancy,
		Amount:       500,
		PaymentMode:  models.ModeCash,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.VoucherID != nil {
		t.Errorf("payment must stay unlinked when minting fails")
	}
	if len(f.daybook.entries) != 1 {
		t.Errorf("daybook write still happens: entries = %d", len(f.daybook.entries))
	}
	if len(f.summary.calls) != 1 {
		t.Errorf("recompute still runs: calls = %v", f.summary.calls)
	}
}

func TestPaymentCreateRecomputeFailureDoesNotFailPayment(t *testing.T) {
	f := newPaymentFixture()
	f.summary.err = apperrors.NotFound("admission vanished")

	p, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerStudent,
		ReceiverType: models.ReceiverConsultancy,
		Amount:       1200,
		PaymentMode:  models.ModeUPI,
	}, 11)
	if err != nil {
		t.Fatalf("Create must not surface a recompute failure: %v", err)
	}
	if p == nil || p.ID == 0 {
		t.Fatalf("created payment not returned")
	}
	if len(f.summary.calls) != 1 {
		t.Errorf("recompute calls = %v, want [7]", f.summary.calls)
	}
}

func TestPaymentUpdateAmountTriggersRecompute(t *testing.T) {
	f := newPaymentFixture()

	p, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerStudent,
		ReceiverType: models.ReceiverConsultancy,
		Amount:       1000,
		PaymentMode:  models.ModeUPI,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.summary.calls = nil

	amount := 2500.0
	updated, err := f.svc.Update(context.Background(), p.ID, &models.UpdatePaymentRequest{Amount: &amount}, 11)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Amount != 2500 {
		t.Errorf("amount = %v, want 2500", updated.Amount)
	}
	if len(f.summary.calls) != 1 {
		t.Errorf("amount change must recompute: calls = %v", f.summary.calls)
	}

	f.summary.calls = nil
	notes := "corrected narration"
	if _, err := f.svc.Update(context.Background(), p.ID, &models.UpdatePaymentRequest{Notes: &notes}, 11); err != nil {
		t.Fatalf("Update notes: %v", err)
	}
	if len(f.summary.calls) != 0 {
		t.Errorf("notes-only edit must not recompute: calls = %v", f.summary.calls)
	}
}

func TestPaymentDeleteRetiresSideEffects(t *testing.T) {
	f := newPaymentFixture()

	p, err := f.svc.Create(context.Background(), &models.CreatePaymentRequest{
		AdmissionID:  7,
		PayerType:    models.PayerStudent,
		ReceiverType: models.ReceiverConsultancy,
		Amount:       1000,
		PaymentMode:  models.ModeCash,
	}, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.summary.calls = nil

	if err := f.svc.Delete(context.Background(), p.ID, 11); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.payments.deleted) != 1 || f.payments.deleted[0] != p.ID {
		t.Errorf("payment not soft-deleted: %v", f.payments.deleted)
	}
	if len(f.vouchers.retired) != 1 {
		t.Errorf("voucher not retired: %v", f.vouchers.retired)
	}
	if len(f.daybook.retired) != 1 || f.daybook.retired[0] != p.ID {
		t.Errorf("daybook rows not retired: %v", f.daybook.retired)
	}
	if len(f.summary.calls) != 1 || f.summary.calls[0] != 7 {
		t.Errorf("recompute calls = %v, want [7]", f.summary.calls)
	}
}

func TestCheckTransactionRef(t *testing.T) {
	f := newPaymentFixture()
	f.payments.byRef["UTR9"] = &models.PaymentPreview{ID: 3, Amount: 700}

	check, err := f.svc.CheckTransactionRef(context.Background(), "UTR9")
	if err != nil {
		t.Fatalf("CheckTransactionRef: %v", err)
	}
	if !check.Exists || check.Payment == nil || check.Payment.ID != 3 {
		t.Errorf("check = %+v, want existing payment 3", check)
	}

	check, err = f.svc.CheckTransactionRef(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("CheckTransactionRef: %v", err)
	}
	if check.Exists {
		t.Errorf("fresh reference reported as used")
	}

	if _, err := f.svc.CheckTransactionRef(context.Background(), "  "); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("blank reference: err = %v, want validation", err)
	}
}
