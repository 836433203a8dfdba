package hierarchy

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traverse(t *testing.T, rawQuery string) *Traversal {
	t.Helper()
	q, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	out, err := NewAggregator(fixture()).Traverse(context.Background(), ParseFilters(q))
	require.NoError(t, err)
	return out
}

func TestTraverseUnfiltered(t *testing.T) {
	out := traverse(t, "")

	assert.Equal(t, Summary{
		Cluster:     2,
		Sambhag:     2,
		Jila:        3,
		LokSabha:    2,
		VidhanSabha: 3,
		Mandal:      4,
		Sakha:       4,
		Booth:       6,
	}, out.Summary)

	require.Len(t, out.Data, 2, "lok sabhas without booths are dropped")
	assert.Equal(t, int64(100), out.Data[0].LokID)
	assert.Equal(t, int64(200), out.Data[1].LokID)

	vids := out.Data[0].VidhanSabhas
	require.Len(t, vids, 2)
	assert.Equal(t, "Vid X", vids[0].VidName.Value)
	assert.Equal(t, "Vid Y", vids[1].VidName.Value)

	mandals := vids[0].Mandals
	require.Len(t, mandals, 2)
	assert.Equal(t, "Man K", mandals[0].Name.Value)
	assert.Equal(t, "Man M", mandals[1].Name.Value)
	require.Len(t, mandals[1].Sakhas, 1)
	assert.Equal(t, []BoothLeaf{
		{ID: 1000, Name: mandals[1].Sakhas[0].Booths[0].Name},
		{ID: 1001, Name: mandals[1].Sakhas[0].Booths[1].Name},
	}, mandals[1].Sakhas[0].Booths)
}

func TestTraverseDeepestFilterWins(t *testing.T) {
	out := traverse(t, "manId=2&sakhaId=5")

	assert.Equal(t, 2, out.Summary.Mandal, "manId=2 is ignored when sakhaId is present")
	assert.Equal(t, 2, out.Summary.Sakha)
	assert.Equal(t, 3, out.Summary.Booth)
	for _, l := range out.Data {
		for _, v := range l.VidhanSabhas {
			for _, m := range v.Mandals {
				assert.Equal(t, int64(1), m.ID)
			}
		}
	}

	out = traverse(t, "manId=2&sakhaId=5&btId=1002")
	assert.Equal(t, 1, out.Summary.Booth)
	assert.Equal(t, int64(2), out.Data[0].VidhanSabhas[0].Mandals[0].ID)
}

func TestTraverseDuplicateAndReorderedIDs(t *testing.T) {
	a := traverse(t, "vidId=10,10,20")
	b := traverse(t, "vidId=10,20")
	c := traverse(t, "vidId=20&vidId=10")

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	jc, _ := json.Marshal(c)
	assert.Equal(t, string(jb), string(ja))
	assert.Equal(t, string(jb), string(jc))
	assert.Equal(t, 2, a.Summary.VidhanSabha)
}

func TestTraverseSambhagResolvesThroughVidhanSabhas(t *testing.T) {
	out := traverse(t, "sambhagId=8")

	require.Len(t, out.Data, 1)
	require.Len(t, out.Data[0].VidhanSabhas, 1)
	assert.Equal(t, int64(11), out.Data[0].VidhanSabhas[0].VidID)
	assert.Equal(t, 1, out.Summary.Sambhag)
	assert.Equal(t, 1, out.Summary.Jila)
	assert.Equal(t, 1, out.Summary.Cluster)
}

func TestTraverseClusterOrJila(t *testing.T) {
	q, err := url.ParseQuery("clusterId=2&jilaId=80")
	require.NoError(t, err)
	agg := NewAggregator(fixture())

	// Lok sabhas come from either root, but the jila's vidhan sabhas then
	// narrow the vidhan step, so only vid 11 survives.
	out, err := agg.Traverse(context.Background(), ParseFilters(q))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Summary.LokSabha)
	assert.Equal(t, 1, out.Summary.VidhanSabha)
	assert.Equal(t, int64(11), out.Data[0].VidhanSabhas[0].VidID)

	out, err = agg.Traverse(context.Background(), Filters{ClusterIDs: []int64{2}})
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.Data[0].VidhanSabhas[0].VidID)
}

func TestTraverseEmptyResults(t *testing.T) {
	for _, q := range []string{"clusterId=42", "lokId=101", "btId=777", "clusterId=abc&vidId=999"} {
		t.Run(q, func(t *testing.T) {
			out := traverse(t, q)
			assert.Equal(t, Summary{}, out.Summary)
			assert.NotNil(t, out.Data)
			assert.Empty(t, out.Data)
		})
	}
}

func TestTraverseUnmatchedSambhagDoesNotNarrow(t *testing.T) {
	for _, tc := range []struct{ filtered, plain string }{
		{"clusterId=1&sambhagId=999", "clusterId=1"},
		{"clusterId=1&jilaId=999", "clusterId=1"},
		{"sambhagId=999", ""},
	} {
		t.Run(tc.filtered, func(t *testing.T) {
			got, _ := json.Marshal(traverse(t, tc.filtered))
			want, _ := json.Marshal(traverse(t, tc.plain))
			assert.JSONEq(t, string(want), string(got))
		})
	}

	out := traverse(t, "clusterId=1&sambhagId=999")
	assert.Equal(t, 1, out.Summary.LokSabha)
	assert.Equal(t, 2, out.Summary.VidhanSabha)
	assert.Equal(t, 4, out.Summary.Booth)
}

func TestTraverseJSONShape(t *testing.T) {
	out := traverse(t, "clusterId=2&btId=2000")
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"summary":{"cluster":1,"sambhag":1,"jila":1,"lokSabha":1,"vidhanSabha":1,"mandal":1,"sakha":1,"booth":1},
		"data":[{"clusterId":2,"lokId":200,"lokName":"Lok C","vidhanSabhas":[
			{"vidId":20,"vidName":"Vid Z","mandales_sakha_booths":[
				{"MAN_ID":3,"MAN_NM":"Man Q","sakhas":[
					{"SAK_ID":9,"SAK_NM":"Sak V","booths":[{"BT_ID":2000,"BT_NM":"Booth 5"}]}
				]}
			]}
		]}]
	}`, string(b))
}

func TestTraversePropagatesSourceErrors(t *testing.T) {
	_, err := NewAggregator(&failingSource{}).Traverse(context.Background(), Filters{})
	assert.ErrorIs(t, err, errDown)
}

func TestCacheKeyStability(t *testing.T) {
	key := func(raw string) string {
		q, err := url.ParseQuery(raw)
		require.NoError(t, err)
		return ParseFilters(q).CacheKey()
	}

	assert.Equal(t, "hierarchy:multiple:clusterId:1,2,3", key("clusterId=3,1,2"))
	assert.Equal(t, key("clusterId=1,2,3"), key("clusterId=3,1,2"))
	assert.Equal(t, key("clusterId=1,2,3"), key("clusterId=2&clusterId=1&clusterId=3"))
	assert.Equal(t, key("vidId=10,20"), key("vidId=10,10,20"))
	assert.Equal(t, key("vidId=10,20"), key("vidId=20,10"))

	assert.Equal(t,
		"hierarchy:multiple:btId:7|clusterId:1|sakhaId:4,5|sambhagId:9",
		key("sambhagId=9&clusterId=1&sakhaId=5,4&btId=7&lokId=abc"))
	assert.Equal(t, "hierarchy:multiple:", key(""))
}

func TestParseFilters(t *testing.T) {
	q := url.Values{
		"clusterId": {"3,1", "2"},
		"manId":     {"x,5"},
		"btId":      {"oops"},
	}
	f := ParseFilters(q)

	assert.Equal(t, []int64{1, 2, 3}, f.ClusterIDs)
	assert.Equal(t, []int64{5}, f.MandalIDs)
	assert.Nil(t, f.BoothIDs)
	assert.Nil(t, f.SambhagIDs)
}
