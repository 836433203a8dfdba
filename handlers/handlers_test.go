package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"geo_hierarchy/cache"
	"geo_hierarchy/hierarchy"
	"geo_hierarchy/middleware"
	"geo_hierarchy/models"
	"geo_hierarchy/source"
	"geo_hierarchy/users"
)

const testSecret = "test-secret"

func fixtureSource() *source.Memory {
	clu := func(cid int64, cnm string, lid int64, lnm string, vid int64, vnm string) models.ClusterLink {
		return models.ClusterLink{
			ClusterID: models.Some(cid), ClusterName: models.Named(cnm),
			LokID: models.Some(lid), LokName: models.Named(lnm),
			VidID: models.Some(vid), VidName: models.Named(vnm),
		}
	}
	sam := func(sid int64, snm string, jid int64, jnm string, vid int64, vnm string) models.SambhagLink {
		return models.SambhagLink{
			SambhagID: models.Some(sid), SambhagName: models.Named(snm),
			JilaID: models.Some(jid), JilaName: models.Named(jnm),
			VidID: models.Some(vid), VidName: models.Named(vnm),
		}
	}
	leaf := func(vid, man int64, mnm string, sak int64, snm string, bt int64, bnm string) models.LeafFact {
		return models.LeafFact{
			VidID:    models.Some(vid),
			MandalID: models.Some(man), MandalName: models.Named(mnm),
			SakhaID: models.Some(sak), SakhaName: models.Named(snm),
			BoothID: models.Some(bt), BoothName: models.Named(bnm),
		}
	}

	return source.NewMemory(
		[]models.ClusterLink{
			clu(1, "A", 100, "Lok A", 10, "Vid X"),
			clu(2, "B", 200, "Lok C", 20, "Vid Z"),
		},
		[]models.SambhagLink{
			sam(7, "Sam", 70, "Jila P", 10, "Vid X"),
			sam(7, "Sam", 71, "Jila Q", 20, "Vid Z"),
		},
		[]models.LeafFact{
			leaf(10, 1, "Man M", 5, "Sak S", 1000, "Booth 1"),
			leaf(10, 1, "Man M", 5, "Sak S", 1001, "Booth 2"),
			leaf(20, 3, "Man Q", 9, "Sak V", 2000, "Booth 5"),
		},
	)
}

type brokenSource struct{ source.Memory }

var errBroken = errors.New("connection refused")

func (brokenSource) Ping(context.Context) error { return errBroken }

func (brokenSource) ClusterLinks(context.Context, source.ClusterFilter) ([]models.ClusterLink, error) {
	return nil, errBroken
}

func (brokenSource) SambhagLinks(context.Context, source.SambhagFilter) ([]models.SambhagLink, error) {
	return nil, errBroken
}

func (brokenSource) LeafFacts(context.Context, source.LeafFilter) ([]models.LeafFact, error) {
	return nil, errBroken
}

type testServer struct {
	router *mux.Router
	users  *users.MemoryStore
	auth   *middleware.Auth
	cache  *cache.Cache
}

func newTestServer(t *testing.T, src source.Source, store cache.Store) *testServer {
	t.Helper()
	if store == nil {
		store = cache.NewMemoryStore()
	}
	ts := &testServer{
		router: mux.NewRouter(),
		users:  users.NewMemoryStore(),
		auth:   middleware.NewAuth(testSecret, time.Hour),
		cache:  cache.New(store, "test"),
	}
	RegisterRoutes(ts.router.PathPrefix("/api/v1").Subrouter(), Dependencies{
		Aggregator: hierarchy.NewAggregator(src),
		Cache:      ts.cache,
		Users:      ts.users,
		Auth:       ts.auth,
		Tables: func(context.Context) ([]string, error) {
			return []string{"cludata", "smdata", "vddata"}, nil
		},
		Driver:       "sqlite",
		BoothTTL:     24 * time.Hour,
		TraversalTTL: time.Hour,
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role string) string {
	t.Helper()
	token, err := ts.auth.Issue(&models.User{ID: "u-" + role, Role: role})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
