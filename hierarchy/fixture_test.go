package hierarchy

import (
	"context"
	"errors"

	"geo_hierarchy/models"
	"geo_hierarchy/source"
)

func clu(cid int64, cnm string, lid int64, lnm string, vid int64, vnm string) models.ClusterLink {
	return models.ClusterLink{
		ClusterID: models.Some(cid), ClusterName: models.Named(cnm),
		LokID: models.Some(lid), LokName: models.Named(lnm),
		VidID: models.Some(vid), VidName: models.Named(vnm),
	}
}

func sam(sid int64, snm string, jid int64, jnm string, vid int64, vnm string) models.SambhagLink {
	return models.SambhagLink{
		SambhagID: models.Some(sid), SambhagName: models.Named(snm),
		JilaID: models.Some(jid), JilaName: models.Named(jnm),
		VidID: models.Some(vid), VidName: models.Named(vnm),
	}
}

func leaf(vid, man int64, mnm string, sak int64, snm string, bt int64, bnm string) models.LeafFact {
	return models.LeafFact{
		VidID:    models.Some(vid),
		MandalID: models.Some(man), MandalName: models.Named(mnm),
		SakhaID: models.Some(sak), SakhaName: models.Named(snm),
		BoothID: models.Some(bt), BoothName: models.Named(bnm),
	}
}

// fixture:
//
//	cluster 1 "A": lok 100 (vid 10, 11), lok 101 (vid 12, no leaves)
//	cluster 2 "B": lok 200 (vid 20)
//	sambhag 7: jila 70 (vid 10), jila 71 (vid 20); sambhag 8: jila 80 (vid 11)
//
// Mandal, sakha and booth ids repeat across vid 10 and vid 11.
func fixture() *source.Memory {
	return source.NewMemory(
		[]models.ClusterLink{
			clu(1, "A", 100, "Lok A", 10, "Vid X"),
			clu(1, "A", 100, "Lok A", 11, "Vid Y"),
			clu(1, "A", 101, "Lok B", 12, "Vid W"),
			clu(2, "B", 200, "Lok C", 20, "Vid Z"),
			{LokID: models.Some(300), LokName: models.Named("Orphan Lok"), VidID: models.Some(30)},
		},
		[]models.SambhagLink{
			sam(7, "Sam", 70, "Jila P", 10, "Vid X"),
			sam(7, "Sam", 71, "Jila Q", 20, "Vid Z"),
			sam(8, "Sam Two", 80, "Jila R", 11, "Vid Y"),
		},
		[]models.LeafFact{
			leaf(10, 1, "Man M", 5, "Sak S", 1000, "Booth 1"),
			leaf(10, 1, "Man M", 5, "Sak S", 1000, "Booth 1"),
			leaf(10, 1, "Man M", 5, "Sak S", 1001, "Booth 2"),
			leaf(10, 2, "Man K", 6, "Sak T", 1002, "Booth 3"),
			leaf(11, 1, "Man N", 5, "Sak U", 1000, "Booth 4"),
			leaf(20, 3, "Man Q", 9, "Sak V", 2000, "Booth 5"),
			leaf(20, 3, "", 9, "Sak V", 2001, ""),
		},
	)
}

type failingSource struct{ source.Memory }

var errDown = errors.New("database is down")

func (failingSource) ClusterLinks(context.Context, source.ClusterFilter) ([]models.ClusterLink, error) {
	return nil, errDown
}

func (failingSource) SambhagLinks(context.Context, source.SambhagFilter) ([]models.SambhagLink, error) {
	return nil, errDown
}

func (failingSource) LeafFacts(context.Context, source.LeafFilter) ([]models.LeafFact, error) {
	return nil, errDown
}

func fixtureEmpty() *source.Memory {
	return source.NewMemory(nil, nil, nil)
}
