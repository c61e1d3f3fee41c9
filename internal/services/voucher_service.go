package services

import (
	"bytes"
	"context"
	"fmt"

	"admission-backend/internal/audit"
	"admission-backend/internal/models"
	"admission-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// VoucherStore is the read/print surface for vouchers.
type VoucherStore interface {
	Get(ctx context.Context, id int) (*models.Voucher, error)
	GetByNumber(ctx context.Context, voucherNo string) (*models.Voucher, error)
	List(ctx context.Context, f *models.VoucherFilter) ([]*models.Voucher, int, error)
	RecordPrint(ctx context.Context, id, printedBy int) (*models.Voucher, error)
}

// BranchGetter resolves branch details for voucher headers.
type BranchGetter interface {
	Get(ctx context.Context, id int) (*models.Branch, error)
}

// VoucherService serves voucher lookups, the print audit trail and the
// printable PDF rendition. Vouchers themselves are minted by the payment
// and daybook services; nothing here creates or edits one.
type VoucherService struct {
	Vouchers VoucherStore
	Branches BranchGetter
	Audit    *audit.Recorder
}

func NewVoucherService(vouchers VoucherStore, branches BranchGetter, rec *audit.Recorder) *VoucherService {
	return &VoucherService{Vouchers: vouchers, Branches: branches, Audit: rec}
}

func (s *VoucherService) Get(ctx context.Context, id int) (*models.Voucher, error) {
	return s.Vouchers.Get(ctx, id)
}

func (s *VoucherService) GetByNumber(ctx context.Context, voucherNo string) (*models.Voucher, error) {
	return s.Vouchers.GetByNumber(ctx, voucherNo)
}

func (s *VoucherService) List(ctx context.Context, f *models.VoucherFilter) ([]*models.Voucher, int, error) {
	return s.Vouchers.List(ctx, f)
}

// RecordPrint bumps the voucher's print counter. The returned voucher
// carries the updated audit fields.
func (s *VoucherService) RecordPrint(ctx context.Context, id, actorID int) (*models.Voucher, error) {
	v, err := s.Vouchers.RecordPrint(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	s.Audit.Record("print", "voucher", id, nil, v, actorID)
	return v, nil
}

// GeneratePDF renders the printable voucher. Recording the print is a
// separate call so previews do not inflate the counter.
func (s *VoucherService) GeneratePDF(ctx context.Context, id int) ([]byte, error) {
	v, err := s.Vouchers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	branchName := ""
	if b, err := s.Branches.Get(ctx, v.BranchID); err == nil {
		branchName = fmt.Sprintf("%s (%s)", b.Name, b.Code)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(128, 8, voucherTitle(v.VoucherType), "", 1, "C", false, 0, "")
	if branchName != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(128, 6, branchName, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(64, 7, fmt.Sprintf("Voucher No: %s", v.VoucherNo), "", 0, "L", false, 0, "")
	pdf.CellFormat(64, 7, fmt.Sprintf("Date: %s", timeutil.FormatIST(v.VoucherDate, timeutil.DateLayout)), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "", 10)
	if v.PartyName != "" {
		pdf.CellFormat(128, 7, fmt.Sprintf("Party: %s", v.PartyName), "1", 1, "L", false, 0, "")
	}
	if v.Description != "" {
		pdf.MultiCell(128, 7, fmt.Sprintf("Towards: %s", v.Description), "1", "L", false)
	}
	if v.PaymentMode != "" {
		mode := string(v.PaymentMode)
		if v.TransactionRef != "" {
			mode = fmt.Sprintf("%s (Ref: %s)", mode, v.TransactionRef)
		}
		pdf.CellFormat(128, 7, fmt.Sprintf("Mode: %s", mode), "1", 1, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(128, 10, fmt.Sprintf("Amount: Rs. %.2f", v.Amount), "1", 1, "C", true, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(64, 6, "Received / Paid by", "T", 0, "C", false, 0, "")
	pdf.CellFormat(64, 6, "Authorized Signatory", "T", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func voucherTitle(t models.VoucherType) string {
	switch t {
	case models.VoucherReceipt:
		return "RECEIPT VOUCHER"
	case models.VoucherPayment:
		return "PAYMENT VOUCHER"
	case models.VoucherAgentPayment:
		return "AGENT PAYMENT VOUCHER"
	case models.VoucherExpense:
		return "EXPENSE VOUCHER"
	}
	return "VOUCHER"
}
