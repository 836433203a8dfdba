package hierarchy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterTree(t *testing.T) {
	agg := NewAggregator(fixture())

	tree, err := agg.ClusterTree(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, "Lok A", tree[0].LokName.Value)
	require.Len(t, tree[0].VidhanSabhas, 2)
	assert.Equal(t, "Vid X", tree[0].VidhanSabhas[0].VidName.Value)
	assert.Len(t, tree[0].VidhanSabhas[0].Leaves, 3, "duplicate leaf rows collapse")
	assert.Equal(t, "Man K", tree[0].VidhanSabhas[0].Leaves[0].MandalName.Value)

	assert.Equal(t, "Lok B", tree[1].LokName.Value)
	require.Len(t, tree[1].VidhanSabhas, 1)
	assert.Empty(t, tree[1].VidhanSabhas[0].Leaves, "vidhan sabhas without leaves are kept")

	b, err := json.Marshal(tree[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"clusterId":1,"lokId":101,"lokName":"Lok B","vidhanSabhas":[
		{"lokId":101,"vidId":12,"vidName":"Vid W","mandales_sakha_booths":[]}]}`, string(b))
}

func TestClusterTreeUnknownCluster(t *testing.T) {
	tree, err := NewAggregator(fixture()).ClusterTree(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)

	_, err = NewAggregator(&failingSource{}).ClusterTree(context.Background(), 1)
	assert.ErrorIs(t, err, errDown)
}

func TestBrowseRoots(t *testing.T) {
	agg := NewAggregator(fixture())
	ctx := context.Background()

	clusters, err := agg.Clusters(ctx)
	require.NoError(t, err)
	b, err := json.Marshal(clusters)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"CLUS_ID":1,"CLUS_NM":"A"},{"CLUS_ID":2,"CLUS_NM":"B"}]`, string(b))

	sambhags, err := agg.Sambhags(ctx)
	require.NoError(t, err)
	assert.Len(t, sambhags, 2)
}

func TestBrowseChildren(t *testing.T) {
	agg := NewAggregator(fixture())
	ctx := context.Background()

	loks, err := agg.LokSabhasByCluster(ctx, 1)
	require.NoError(t, err)
	b, err := json.Marshal(loks)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"LOK_ID":100,"LOK_NM":"Lok A","CLUS_ID":1},{"LOK_ID":101,"LOK_NM":"Lok B","CLUS_ID":1}]`, string(b))

	jilas, err := agg.JilasBySambhag(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, jilas, 2)

	vids, err := agg.VidhanSabhasByLokSabha(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, vids, 2)

	vids, err = agg.VidhanSabhasByJila(ctx, 71)
	require.NoError(t, err)
	require.Len(t, vids, 1)
	assert.Equal(t, int64(20), vids[0].ID)

	mandals, err := agg.MandalsByVidhanSabha(ctx, 10)
	require.NoError(t, err)
	b, err = json.Marshal(mandals)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"MAN_ID":2,"MAN_NM":"Man K","VID_ID":10},{"MAN_ID":1,"MAN_NM":"Man M","VID_ID":10}]`, string(b))

	sakhas, err := agg.SakhasByMandal(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, sakhas, 1)
	assert.Equal(t, int64(5), sakhas[0].ID)

	booths, err := agg.BoothsBySakha(ctx, 20, 9)
	require.NoError(t, err)
	require.Len(t, booths, 1, "booth without a name is skipped")
	assert.Equal(t, int64(2000), booths[0].ID)
}

func TestRawTableDumps(t *testing.T) {
	agg := NewAggregator(fixture())
	ctx := context.Background()

	clu, err := agg.ClusterRows(ctx)
	require.NoError(t, err)
	assert.Len(t, clu, 5)

	sm, err := agg.SambhagRows(ctx)
	require.NoError(t, err)
	assert.Len(t, sm, 3)

	vd, err := agg.LeafRows(ctx)
	require.NoError(t, err)
	assert.Len(t, vd, 7)

	empty, err := NewAggregator(fixtureEmpty()).ClusterRows(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
}
