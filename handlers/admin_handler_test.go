package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geo_hierarchy/models"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/all-mandal-cluster", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/all-mandal-cluster", ts.token(t, models.RoleDistrictUser), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/all-mandal-cluster", ts.token(t, models.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminMandalsInCluster(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/all-mandal-cluster", ts.token(t, models.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.EqualValues(t, 2, body["totalLevelCount"])
	assert.EqualValues(t, 2, body["totalColumnCount"])
	_, cached := body["cached"]
	assert.False(t, cached, "only booth projections are cached")

	detailed := body["detailedData"].([]any)
	require.Len(t, detailed, 2)
	first := detailed[0].(map[string]any)
	assert.Equal(t, "A", first["CLUS_NM"])
	assert.EqualValues(t, 1, first["mandalCount"])
	mandal := first["mandals"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 10, mandal["VID_ID"])
	assert.Equal(t, "Man M", mandal["MAN_NM"])
}

func TestAdminScopedProjection(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)
	admin := ts.token(t, models.RoleAdmin)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/all-vidhan-cluster?id=2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.EqualValues(t, 1, body["totalLevelCount"])
	assert.Equal(t, "B", body["detailedData"].([]any)[0].(map[string]any)["CLUS_NM"])

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/all-booth-mandale?id=1&vidId=10", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeMap(t, rec)["totalColumnCount"])

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/all-vidhan-cluster?id=x", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminBoothProjectionIsCached(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)
	admin := ts.token(t, models.RoleAdmin)

	first := ts.do(t, http.MethodGet, "/api/v1/admin/all-booth-cluster", admin, nil)
	require.Equal(t, http.StatusOK, first.Code)
	firstBody := decodeMap(t, first)
	assert.EqualValues(t, 3, firstBody["totalColumnCount"])
	assert.NotContains(t, firstBody, "cached")

	second := ts.do(t, http.MethodGet, "/api/v1/admin/all-booth-cluster", admin, nil)
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decodeMap(t, second)
	assert.Equal(t, true, secondBody["cached"])
	delete(secondBody, "cached")
	assert.Equal(t, firstBody, secondBody)
}

func TestAdminBoothProjectionIgnoresNullCacheEntry(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)
	admin := ts.token(t, models.RoleAdmin)
	ts.cache.Set(context.Background(), "admin/all-booth-cluster", "null", time.Hour)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/all-booth-cluster", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.NotContains(t, body, "cached")
	assert.EqualValues(t, 3, body["totalColumnCount"])
}

func TestAdminTableDumps(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), nil)
	admin := ts.token(t, models.RoleAdmin)

	for path, rows := range map[string]int{"/smdata": 2, "/cludata": 2, "/vddata": 3} {
		rec := ts.do(t, http.MethodGet, "/api/v1/admin"+path, admin, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Len(t, decodeMap(t, rec)["data"], rows, path)
	}
}

func TestAdminSourceFailure(t *testing.T) {
	ts := newTestServer(t, &brokenSource{}, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/all-sakti-jila", ts.token(t, models.RoleAdmin), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal Server Error"}`, rec.Body.String())
}
