package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"perpusum-backend/internal/service"

	"github.com/gorilla/mux"
)

type MemberHandler struct {
	memberSvc service.MemberService
	statsSvc  service.StatsService
}

func NewMemberHandler(memberSvc service.MemberService, statsSvc service.StatsService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc, statsSvc: statsSvc}
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

type registerRequest struct {
	Name             string `json:"name"`
	NIM              string `json:"nim"`
	Email            string `json:"email"`
	BirthPlace       string `json:"birthPlace"`
	BirthDate        string `json:"birthDate"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Institution      string `json:"institution"`
	Profession       string `json:"profession"`
	Program          string `json:"program"`
	PhotoPath        string `json:"photoPath"`
	SignaturePath    string `json:"signaturePath"`
	PaymentProofPath string `json:"paymentProofPath"`
	RegistrationDate string `json:"registrationDate"`
}

func parseOptionalDate(w http.ResponseWriter, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Format tanggal "+field+" tidak valid (YYYY-MM-DD)")
		return nil, false
	}
	return &t, true
}

func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Body permintaan tidak valid")
		return
	}

	birthDate, ok := parseOptionalDate(w, req.BirthDate, "lahir")
	if !ok {
		return
	}
	registrationDate, ok := parseOptionalDate(w, req.RegistrationDate, "pendaftaran")
	if !ok {
		return
	}

	member, err := h.memberSvc.Register(r.Context(), service.RegisterMemberInput{
		Name:             req.Name,
		NIM:              req.NIM,
		Email:            req.Email,
		BirthPlace:       req.BirthPlace,
		BirthDate:        birthDate,
		Gender:           req.Gender,
		Address:          req.Address,
		Phone:            req.Phone,
		Institution:      req.Institution,
		Profession:       req.Profession,
		Program:          req.Program,
		PhotoPath:        req.PhotoPath,
		SignaturePath:    req.SignaturePath,
		PaymentProofPath: req.PaymentProofPath,
		RegistrationDate: registrationDate,
	})
	if err != nil {
		respondFromError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated,
		"Pendaftaran berhasil! Anda akan menerima email konfirmasi segera.", member)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberSvc.ListMembers(r.Context())
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Data anggota berhasil diambil", members)
}

func (h *MemberHandler) Search(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberSvc.SearchMembers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Hasil pencarian anggota", members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID anggota tidak valid")
		return
	}

	member, err := h.memberSvc.GetMember(r.Context(), id)
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Data anggota berhasil diambil", member)
}

func (h *MemberHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID anggota tidak valid")
		return
	}

	member, err := h.memberSvc.Approve(r.Context(), id)
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Anggota berhasil disetujui", member)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *MemberHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID anggota tidak valid")
		return
	}

	var req rejectRequest
	if r.Body != nil {
		// Reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	member, err := h.memberSvc.Reject(r.Context(), id, req.Reason)
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Pendaftaran anggota ditolak", member)
}

type updateNumberRequest struct {
	MemberNumber string `json:"memberNumber"`
}

func (h *MemberHandler) UpdateMemberNumber(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID anggota tidak valid")
		return
	}

	var req updateNumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Body permintaan tidak valid")
		return
	}

	if err := h.memberSvc.UpdateMemberNumber(r.Context(), id, req.MemberNumber); err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Nomor anggota berhasil diperbarui", nil)
}

func (h *MemberHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.DashboardStats(r.Context())
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Statistik dashboard", stats)
}

func (h *MemberHandler) ProfessionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.ProfessionStats(r.Context())
	if err != nil {
		respondFromError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Statistik profesi", stats)
}

func (h *MemberHandler) RegistrationTrend(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Parameter days tidak valid")
			return
		}
		days = parsed
	}

	trend, err := h.statsSvc.RegistrationTrend(r.Context(), days)
	if err != nil {
		respondFromError(w, err)
		return
	}

	type trendEntry struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	entries := make([]trendEntry, len(trend))
	for i, point := range trend {
		entries[i] = trendEntry{Date: point.Date.Format("2006-01-02"), Count: point.Count}
	}
	respondSuccess(w, http.StatusOK, "Tren pendaftaran anggota", entries)
}
