package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/security"
	"perpusum-backend/internal/service"
)

type stubMemberService struct {
	registerErr error
	member      *domain.Member
}

func (s *stubMemberService) Register(context.Context, service.RegisterMemberInput) (*domain.Member, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.member, nil
}

func (s *stubMemberService) GetMember(_ context.Context, id int32) (*domain.Member, error) {
	if s.member == nil || s.member.ID != id {
		return nil, fmt.Errorf("anggota tidak ditemukan: %w", domain.ErrNotFound)
	}
	return s.member, nil
}

func (s *stubMemberService) ListMembers(context.Context) ([]domain.Member, error) {
	if s.member == nil {
		return nil, nil
	}
	return []domain.Member{*s.member}, nil
}

func (s *stubMemberService) SearchMembers(context.Context, string) ([]domain.Member, error) {
	return nil, nil
}

func (s *stubMemberService) Approve(context.Context, int32) (*domain.Member, error) {
	return s.member, nil
}

func (s *stubMemberService) Reject(context.Context, int32, string) (*domain.Member, error) {
	return s.member, nil
}

func (s *stubMemberService) UpdateMemberNumber(context.Context, int32, string) error {
	return nil
}

type stubStatsService struct{}

func (stubStatsService) DashboardStats(context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{Total: 3, Active: 2, Inactive: 1}, nil
}

func (stubStatsService) ProfessionStats(context.Context) (map[string]int, error) {
	return map[string]int{domain.ProfessionMahasiswa: 2, domain.ProfessionUmum: 1}, nil
}

func (stubStatsService) RegistrationTrend(_ context.Context, days int) ([]domain.TrendPoint, error) {
	if days < 1 || days > 365 {
		return nil, &domain.ValidationError{Fields: map[string]string{"days": "Parameter days harus antara 1 dan 365"}}
	}
	points := make([]domain.TrendPoint, days)
	for i := range points {
		points[i].Date = time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i-days+1)
	}
	return points, nil
}

type stubRenewalService struct {
	eligibility domain.Eligibility
	requestErr  error
}

func (s *stubRenewalService) CanRequestRenewal(context.Context, int32) (domain.Eligibility, error) {
	return s.eligibility, nil
}

func (s *stubRenewalService) RequestRenewal(_ context.Context, memberID int32, _, _ string) (*domain.RenewalRequest, error) {
	if s.requestErr != nil {
		return nil, s.requestErr
	}
	return &domain.RenewalRequest{ID: 10, MemberID: memberID, Status: domain.RenewalStatusPending}, nil
}

func (s *stubRenewalService) ListRenewals(context.Context) ([]domain.RenewalListItem, error) {
	return nil, nil
}

func (s *stubRenewalService) ApproveRenewal(context.Context, int32) (*domain.RenewalRequest, error) {
	return &domain.RenewalRequest{ID: 10, Status: domain.RenewalStatusApproved}, nil
}

func (s *stubRenewalService) RejectRenewal(context.Context, int32, string) (*domain.RenewalRequest, error) {
	return &domain.RenewalRequest{ID: 10, Status: domain.RenewalStatusRejected}, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(_ context.Context, email, password string) (string, *domain.Admin, error) {
	if email == "admin@perpusum.local" && password == "rahasia-admin" {
		return "stub-token", &domain.Admin{ID: 1, Email: email}, nil
	}
	return "", nil, domain.ErrInvalidCredentials
}

func testRouter(t *testing.T, memberSvc service.MemberService, renewalSvc service.RenewalService) (*httptest.Server, string) {
	t.Helper()
	tokens := security.NewTokenManager("test-secret-at-least-32-characters!!", time.Hour)
	router := NewRouter(
		NewAuthHandler(stubAuthService{}, tokens),
		NewMemberHandler(memberSvc, stubStatsService{}),
		NewRenewalHandler(renewalSvc),
		tokens,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := tokens.Generate(1, "admin@perpusum.local")
	require.NoError(t, err)
	return srv, token
}

func decodeResponse(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()
	defer resp.Body.Close()
	var body apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testRouter(t, &stubMemberService{}, &stubRenewalService{})

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.True(t, body.Success)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv, token := testRouter(t, &stubMemberService{}, &stubRenewalService{})

	resp, err := http.Get(srv.URL + "/api/members")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.Equal(t, "Token tidak ditemukan", body.Message)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/members", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/members", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterIsPublic(t *testing.T) {
	member := &domain.Member{ID: 1, MemberNumber: "UM-20250714-0001", Status: domain.MemberStatusPending}
	srv, _ := testRouter(t, &stubMemberService{member: member}, &stubRenewalService{})

	payload, _ := json.Marshal(map[string]string{
		"name":        "Budi Santoso",
		"nim":         "2105510001",
		"email":       "budi@example.com",
		"institution": "Universitas Muhammadiyah",
	})
	resp, err := http.Post(srv.URL+"/api/members/register", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, "Pendaftaran berhasil! Anda akan menerima email konfirmasi segera.", body.Message)
}

func TestRegisterValidationShape(t *testing.T) {
	svc := &stubMemberService{registerErr: &domain.ValidationError{Fields: map[string]string{
		"name": "Nama harus diisi",
	}}}
	srv, _ := testRouter(t, svc, &stubRenewalService{})

	resp, err := http.Post(srv.URL+"/api/members/register", "application/json", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "Validasi gagal", body.Message)
	assert.Equal(t, "Nama harus diisi", body.Errors["name"])
}

func TestRegisterBadDateFormat(t *testing.T) {
	srv, _ := testRouter(t, &stubMemberService{}, &stubRenewalService{})

	payload := []byte(`{"name":"Budi","birthDate":"14-07-2025"}`)
	resp, err := http.Post(srv.URL+"/api/members/register", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRenewalDenialCarriesDays(t *testing.T) {
	svc := &stubRenewalService{requestErr: &domain.RuleDenialError{
		Reason: "Masa keanggotaan masih berlaku 12 hari ke depan",
		Days:   12,
	}}
	srv, _ := testRouter(t, &stubMemberService{}, svc)

	payload := []byte(`{"paymentProofPath":"uploads/bukti.png"}`)
	resp, err := http.Post(srv.URL+"/api/members/1/renewal-request", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.False(t, body.Success)
	require.NotNil(t, body.Days)
	assert.Equal(t, 12, *body.Days)
}

func TestEligibilityIsPublic(t *testing.T) {
	svc := &stubRenewalService{eligibility: domain.Eligibility{Allowed: true, Days: -4}}
	srv, _ := testRouter(t, &stubMemberService{}, svc)

	resp, err := http.Get(srv.URL + "/api/members/1/renewal-eligibility")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.True(t, body.Success)
}

func TestLoginFlow(t *testing.T) {
	srv, _ := testRouter(t, &stubMemberService{}, &stubRenewalService{})

	payload := []byte(`{"email":"admin@perpusum.local","password":"rahasia-admin"}`)
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.Equal(t, "Login berhasil", body.Message)

	payload = []byte(`{"email":"admin@perpusum.local","password":"salah"}`)
	resp, err = http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRegistrationTrendEndpoint(t *testing.T) {
	srv, token := testRouter(t, &stubMemberService{}, &stubRenewalService{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/members/dashboard/registration-trend?days=3", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	require.Len(t, body.Data, 3)
	assert.Equal(t, "2025-07-12", body.Data[0].Date)
	assert.Equal(t, "2025-07-14", body.Data[2].Date)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/members/dashboard/registration-trend?days=0", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
