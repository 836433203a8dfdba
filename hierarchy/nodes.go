package hierarchy

import (
	"bytes"
	"encoding/json"
	"strconv"

	"geo_hierarchy/models"
)

// NodeID is an ancestor id as exposed in countData: a number, or
// "<VID_ID>_<ID>" for levels that are only unique inside a vidhan sabha.
type NodeID struct {
	VidID  models.ID
	ID     int64
	scoped bool
}

func (n NodeID) String() string {
	if n.scoped {
		vid := "null"
		if n.VidID.Valid {
			vid = strconv.FormatInt(n.VidID.Value, 10)
		}
		return vid + "_" + strconv.FormatInt(n.ID, 10)
	}
	return strconv.FormatInt(n.ID, 10)
}

func (n NodeID) MarshalJSON() ([]byte, error) {
	if n.scoped {
		return json.Marshal(n.String())
	}
	return json.Marshal(n.ID)
}

// HierarchyNode is the countData summary of one ancestor.
type HierarchyNode struct {
	ID     NodeID      `json:"id"`
	Name   models.Name `json:"name"`
	Count  int         `json:"count"`
	Level  string      `json:"level"`
	Column string      `json:"column"`
}

// Child is one descendant listed under a DetailedNode.
type Child struct {
	Level Level
	VidID models.ID
	ID    int64
	Name  string
}

func (c Child) MarshalJSON() ([]byte, error) {
	o := make(object, 0, 3)
	if c.Level.vidScoped() {
		o = append(o, field{"VID_ID", c.VidID})
	}
	o = append(o,
		field{c.Level.idKey(), c.ID},
		field{c.Level.nameKey(), c.Name},
	)
	return o.MarshalJSON()
}

// DetailedNode is an ancestor with its ordered, de-duplicated children.
// It marshals with the table column names, e.g.
// {"CLUS_ID":1,"CLUS_NM":"North","mandalCount":2,"mandals":[...]}.
type DetailedNode struct {
	Level    Level
	Column   Level
	VidID    models.ID
	ID       int64
	Name     models.Name
	Children []Child
}

func (n DetailedNode) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []Child{}
	}

	o := make(object, 0, 5)
	if n.Level.vidScoped() {
		o = append(o, field{"VID_ID", n.VidID})
	}
	o = append(o,
		field{n.Level.idKey(), n.ID},
		field{n.Level.nameKey(), n.Name},
		field{n.Column.countKey(), len(children)},
		field{n.Column.listKey(), children},
	)
	return o.MarshalJSON()
}

// Projection is the result of projecting one level onto its ancestors.
type Projection struct {
	TotalLevelCount  int             `json:"totalLevelCount"`
	TotalColumnCount int             `json:"totalColumnCount"`
	CountData        []HierarchyNode `json:"countData"`
	DetailedData     []DetailedNode  `json:"detailedData"`
}

// Entry is a flat browse result: an id/name pair plus the parent id it was
// selected by, e.g. {"LOK_ID":5,"LOK_NM":"Lok A","CLUS_ID":1}.
type Entry struct {
	Level    Level
	ID       int64
	Name     models.Name
	Parent   Level
	ParentID models.ID
	root     bool
}

func (e Entry) MarshalJSON() ([]byte, error) {
	o := object{
		{e.Level.idKey(), e.ID},
		{e.Level.nameKey(), e.Name},
	}
	if !e.root {
		o = append(o, field{e.Parent.idKey(), e.ParentID})
	}
	return o.MarshalJSON()
}

type field struct {
	key   string
	value any
}

// object is a JSON object that keeps its field order.
type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
