package handlers

import (
	"fmt"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type VoucherHandler struct {
	Service *services.VoucherService
}

func NewVoucherHandler(service *services.VoucherService) *VoucherHandler {
	return &VoucherHandler{Service: service}
}

func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid voucher ID")
		return
	}
	v, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

func (h *VoucherHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	voucherNo := mux.Vars(r)["number"]
	if voucherNo == "" {
		utils.Message(w, http.StatusBadRequest, "Voucher number required")
		return
	}
	v, err := h.Service.GetByNumber(r.Context(), voucherNo)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	f := &models.VoucherFilter{
		BranchID:    queryInt(r, "branch_id"),
		AdmissionID: queryInt(r, "admission_id"),
		VoucherType: models.VoucherType(r.URL.Query().Get("type")),
		StartDate:   queryDate(r, "start_date"),
		EndDate:     queryDate(r, "end_date"),
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
	}
	if branchID, ok := middleware.StaffBranchScope(r.Context()); ok {
		f.BranchID = branchID
	}

	vouchers, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, "vouchers", vouchers, total, f.Page, f.Limit)
}

// RecordPrint bumps the print counter and stamps who printed.
func (h *VoucherHandler) RecordPrint(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid voucher ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	v, err := h.Service.RecordPrint(r.Context(), id, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

// PDF streams the printable voucher. Rendering alone does not touch the
// print counter; the client calls RecordPrint when it actually prints.
func (h *VoucherHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid voucher ID")
		return
	}
	pdf, err := h.Service.GeneratePDF(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="voucher_%d.pdf"`, id))
	w.Write(pdf)
}
