package handlers

import (
	"fmt"
	"io"
	"net/http"

	"admission-backend/internal/models"
	"admission-backend/internal/repositories"
	"admission-backend/internal/storage"
	"admission-backend/pkg/utils"
)

const maxAttachmentSize = 10 << 20 // 10 MB

// AttachmentHandler stores payment proofs (receipts, bank slips) in the
// object store and hangs their metadata off the payment row.
type AttachmentHandler struct {
	Payments *repositories.PaymentRepository
	Store    *storage.Client
}

func NewAttachmentHandler(payments *repositories.PaymentRepository, store *storage.Client) *AttachmentHandler {
	return &AttachmentHandler{Payments: payments, Store: store}
}

func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	if _, err := h.Payments.Get(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		utils.Message(w, http.StatusBadRequest, "File too large or malformed upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.Store.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		utils.Message(w, http.StatusInternalServerError, "Attachment storage is unavailable")
		return
	}

	att := &models.Attachment{
		Filename:     header.Filename,
		OriginalName: header.Filename,
		MimeType:     contentType,
		Size:         header.Size,
		Path:         key,
	}
	if err := h.Payments.SetAttachment(r.Context(), id, att); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "Attachment uploaded",
		"attachment": att,
	})
}

func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	p, err := h.Payments.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if p.Attachment == nil {
		utils.Message(w, http.StatusNotFound, "Payment has no attachment")
		return
	}

	body, contentType, err := h.Store.Download(r.Context(), p.Attachment.Path)
	if err != nil {
		utils.Message(w, http.StatusInternalServerError, "Attachment storage is unavailable")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = p.Attachment.MimeType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", p.Attachment.OriginalName))
	io.Copy(w, body)
}
