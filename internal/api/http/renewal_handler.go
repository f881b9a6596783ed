package http

import (
	"encoding/json"
	"net/http"

	"perpusum-backend/internal/service"
)

type RenewalHandler struct {
	renewalSvc service.RenewalService
}

func NewRenewalHandler(renewalSvc service.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewalSvc: renewalSvc}
}

func (h *RenewalHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID anggota tidak valid")
		return
	}

	eligibility, err := h.renewalSvc.CanRequestRenewal(r.Context(), id)
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Status kelayakan perpanjangan", eligibility)
}

type renewalRequestBody struct {
	PaymentProofPath string `json:"paymentProofPath"`
	Reason           string `json:"reason"`
}

func (h *RenewalHandler) Request(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID anggota tidak valid")
		return
	}

	var req renewalRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Body permintaan tidak valid")
		return
	}

	renewal, err := h.renewalSvc.RequestRenewal(r.Context(), id, req.PaymentProofPath, req.Reason)
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Pengajuan perpanjangan berhasil dikirim", renewal)
}

func (h *RenewalHandler) List(w http.ResponseWriter, r *http.Request) {
	renewals, err := h.renewalSvc.ListRenewals(r.Context())
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Data perpanjangan berhasil diambil", renewals)
}

func (h *RenewalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID perpanjangan tidak valid")
		return
	}

	renewal, err := h.renewalSvc.ApproveRenewal(r.Context(), id)
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Perpanjangan berhasil disetujui", renewal)
}

func (h *RenewalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID perpanjangan tidak valid")
		return
	}

	var req rejectRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	renewal, err := h.renewalSvc.RejectRenewal(r.Context(), id, req.Reason)
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Pengajuan perpanjangan ditolak", renewal)
}
