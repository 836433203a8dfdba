// Package source reads the three hierarchy tables (cludata, smdata, vddata).
//
// Every filter field is an id list. A nil list leaves that column
// unconstrained; a non-nil empty list matches no rows.
package source

import (
	"context"

	"geo_hierarchy/models"
)

// Source is the tabular data source behind the hierarchy aggregator.
type Source interface {
	ClusterLinks(ctx context.Context, f ClusterFilter) ([]models.ClusterLink, error)
	SambhagLinks(ctx context.Context, f SambhagFilter) ([]models.SambhagLink, error)
	LeafFacts(ctx context.Context, f LeafFilter) ([]models.LeafFact, error)
	Ping(ctx context.Context) error
}

// ClusterFilter selects cludata rows matching
// (CLUS_ID in RootClusterIDs OR VID_ID in RootVidIDs) AND LOK_ID in LokIDs AND VID_ID in VidIDs.
// The OR group only considers the root lists that are non-nil.
type ClusterFilter struct {
	RootClusterIDs []int64
	RootVidIDs     []int64
	LokIDs         []int64
	VidIDs         []int64
}

// SambhagFilter selects smdata rows. All lists are AND'ed.
type SambhagFilter struct {
	SambhagIDs []int64
	JilaIDs    []int64
	VidIDs     []int64
}

// LeafFilter selects vddata rows. All lists are AND'ed.
type LeafFilter struct {
	VidIDs    []int64
	MandalIDs []int64
	SakhaIDs  []int64
	BoothIDs  []int64
}
