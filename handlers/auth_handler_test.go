package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geo_hierarchy/models"
)

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register-user", "", RegisterRequest{
		Name: "Ravi", Code: "4321", Role: models.RoleDistrictUser,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])
	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "4321", user["code"])
	assert.NotEmpty(t, user["id"])

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Code: "4321", Role: models.RoleDistrictUser})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeMap(t, rec)
	assert.Equal(t, "Login Successful", body["message"])
	token := body["data"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)

	rec = ts.do(t, http.MethodGet, "/api/v1/hierarchy/clusters", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/cludata", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegisterUserValidation(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)

	cases := []struct {
		name string
		req  RegisterRequest
		msg  string
	}{
		{"missing name", RegisterRequest{Code: "1111", Role: models.RoleAdmin}, "All fields are required"},
		{"missing role", RegisterRequest{Name: "A", Code: "1111"}, "All fields are required"},
		{"bad role", RegisterRequest{Name: "A", Code: "1111", Role: "SUPERUSER"}, "Invalid role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/v1/auth/register-user", "", tc.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.msg, decodeMap(t, rec)["message"])
		})
	}

	req := RegisterRequest{Name: "A", Code: "1111", Role: models.RoleLokSabhaUser}
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/auth/register-user", "", req).Code)
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register-user", "", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this code already exists", decodeMap(t, rec)["message"])

	r := ts.do(t, http.MethodPost, "/api/v1/auth/register-user", "", nil)
	assert.Equal(t, http.StatusBadRequest, r.Code)
}

func TestRegisterAdminDefaults(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register-admin", "", map[string]string{"code": "9999"})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decodeMap(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "Admin", user["name"])
	assert.Equal(t, models.RoleAdmin, user["role"])

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/register-admin", "", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/auth/register-admin", "", map[string]string{"code": "1234"}).Code)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Code: "1234"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Code: "123", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(decodeMap(t, rec)["message"].(string), "4 characters"))

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Code: "1234", Role: models.RoleDistrictUser})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User Not found", decodeMap(t, rec)["message"])
}

func TestGetAllUsers(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)
	admin := ts.token(t, models.RoleAdmin)

	rec := ts.do(t, http.MethodGet, "/api/v1/auth/all-users", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"No users found"}`, rec.Body.String())

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/auth/register-admin", "", map[string]string{"code": "1234"}).Code)
	rec = ts.do(t, http.MethodGet, "/api/v1/auth/all-users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeMap(t, rec)["data"], 1)

	rec = ts.do(t, http.MethodGet, "/api/v1/auth/all-users", ts.token(t, models.RoleDistrictUser), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
