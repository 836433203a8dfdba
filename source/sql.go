package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"geo_hierarchy/models"
)

// Dialect selects placeholder and list-binding syntax.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// SQL reads the hierarchy tables through database/sql.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQL) ClusterLinks(ctx context.Context, f ClusterFilter) ([]models.ClusterLink, error) {
	w := s.newWhere()
	w.anyOf(
		column{"CLUS_ID", f.RootClusterIDs},
		column{"VID_ID", f.RootVidIDs},
	)
	w.in("LOK_ID", f.LokIDs)
	w.in("VID_ID", f.VidIDs)

	query := `
        SELECT CLUS_ID, CLUS_NM, LOK_ID, LOK_NM, VID_ID, VID_NM
        FROM cludata` + w.String() + `
        ORDER BY CLUS_ID, LOK_ID, VID_ID`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query cludata: %w", err)
	}
	defer rows.Close()

	var links []models.ClusterLink
	for rows.Next() {
		var l models.ClusterLink
		if err := rows.Scan(&l.ClusterID, &l.ClusterName, &l.LokID, &l.LokName, &l.VidID, &l.VidName); err != nil {
			return nil, fmt.Errorf("scan cludata: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows cludata: %w", err)
	}
	return links, nil
}

func (s *SQL) SambhagLinks(ctx context.Context, f SambhagFilter) ([]models.SambhagLink, error) {
	w := s.newWhere()
	w.in("SAM_ID", f.SambhagIDs)
	w.in("JILA_ID", f.JilaIDs)
	w.in("VID_ID", f.VidIDs)

	query := `
        SELECT SAM_ID, SAM_NM, JILA_ID, JILA_NM, VID_ID, VID_NM
        FROM smdata` + w.String() + `
        ORDER BY SAM_ID, JILA_ID, VID_ID`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query smdata: %w", err)
	}
	defer rows.Close()

	var links []models.SambhagLink
	for rows.Next() {
		var l models.SambhagLink
		if err := rows.Scan(&l.SambhagID, &l.SambhagName, &l.JilaID, &l.JilaName, &l.VidID, &l.VidName); err != nil {
			return nil, fmt.Errorf("scan smdata: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows smdata: %w", err)
	}
	return links, nil
}

func (s *SQL) LeafFacts(ctx context.Context, f LeafFilter) ([]models.LeafFact, error) {
	w := s.newWhere()
	w.in("VID_ID", f.VidIDs)
	w.in("MAN_ID", f.MandalIDs)
	w.in("SAK_ID", f.SakhaIDs)
	w.in("BT_ID", f.BoothIDs)

	query := `
        SELECT VID_ID, MAN_ID, MAN_NM, SAK_ID, SAK_NM, BT_ID, BT_NM
        FROM vddata` + w.String() + `
        ORDER BY VID_ID, MAN_ID, SAK_ID, BT_ID`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query vddata: %w", err)
	}
	defer rows.Close()

	var facts []models.LeafFact
	for rows.Next() {
		var l models.LeafFact
		if err := rows.Scan(&l.VidID, &l.MandalID, &l.MandalName, &l.SakhaID, &l.SakhaName, &l.BoothID, &l.BoothName); err != nil {
			return nil, fmt.Errorf("scan vddata: %w", err)
		}
		facts = append(facts, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows vddata: %w", err)
	}
	return facts, nil
}

type column struct {
	name string
	ids  []int64
}

// where accumulates AND'ed predicates and their bind arguments.
type where struct {
	dialect Dialect
	clauses []string
	args    []any
}

func (s *SQL) newWhere() *where {
	return &where{dialect: s.dialect}
}

func (w *where) in(col string, ids []int64) {
	if ids == nil {
		return
	}
	w.clauses = append(w.clauses, w.predicate(col, ids))
}

func (w *where) anyOf(cols ...column) {
	var parts []string
	for _, c := range cols {
		if c.ids == nil {
			continue
		}
		parts = append(parts, w.predicate(c.name, c.ids))
	}
	if len(parts) > 0 {
		w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
	}
}

func (w *where) predicate(col string, ids []int64) string {
	if len(ids) == 0 {
		return "1 = 0"
	}
	if w.dialect == Postgres {
		w.args = append(w.args, pq.Array(ids))
		return col + " = ANY($" + strconv.Itoa(len(w.args)) + ")"
	}
	marks := make([]string, len(ids))
	for i, id := range ids {
		w.args = append(w.args, id)
		marks[i] = "?"
	}
	return col + " IN (" + strings.Join(marks, ", ") + ")"
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "\n        WHERE " + strings.Join(w.clauses, "\n          AND ")
}
