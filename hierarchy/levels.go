package hierarchy

import "errors"

// ErrUnsupportedPair is returned by Project for an (ancestor, column) pair
// that does not exist in the hierarchy.
var ErrUnsupportedPair = errors.New("unsupported hierarchy level pair")

// Level is one tier of the electoral hierarchy.
//
//	cluster -> lok -> vid -> mandal -> sakha -> booth
//	sambhag -> jila -> vid
type Level int

const (
	Cluster Level = iota
	Sambhag
	Jila
	Lok
	Vid
	Mandal
	Sakha
	Booth
	numLevels
)

type table int

const (
	cludata table = iota
	smdata
	vddata
)

type levelInfo struct {
	name    string
	idKey   string
	nameKey string
	plural  string
	table   table
}

var levels = [numLevels]levelInfo{
	Cluster: {"cluster", "CLUS_ID", "CLUS_NM", "clusters", cludata},
	Sambhag: {"sambhag", "SAM_ID", "SAM_NM", "sambhags", smdata},
	Jila:    {"jila", "JILA_ID", "JILA_NM", "jilas", smdata},
	Lok:     {"lok", "LOK_ID", "LOK_NM", "loks", cludata},
	Vid:     {"vid", "VID_ID", "VID_NM", "vidhans", cludata},
	Mandal:  {"mandal", "MAN_ID", "MAN_NM", "mandals", vddata},
	Sakha:   {"sakha", "SAK_ID", "SAK_NM", "sakhas", vddata},
	Booth:   {"booth", "BT_ID", "BT_NM", "booths", vddata},
}

func (l Level) Valid() bool { return l >= Cluster && l < numLevels }

func (l Level) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return levels[l].name
}

// ParseLevel maps "cluster", "lok", "mandal", ... back to a Level.
func ParseLevel(s string) (Level, bool) {
	for l := Cluster; l < numLevels; l++ {
		if levels[l].name == s {
			return l, true
		}
	}
	return 0, false
}

func (l Level) idKey() string   { return levels[l].idKey }
func (l Level) nameKey() string { return levels[l].nameKey }
func (l Level) listKey() string { return levels[l].plural }
func (l Level) table() table    { return levels[l].table }

func (l Level) countKey() string {
	p := levels[l].plural
	return p[:len(p)-1] + "Count"
}

// carriedBy reports whether rows of t hold both the id and the name of l.
// Vidhan sabhas are listed in smdata as well as cludata.
func (l Level) carriedBy(t table) bool {
	return l.table() == t || (l == Vid && t == smdata)
}

// vidScoped levels have ids that are only unique inside one vidhan sabha.
func (l Level) vidScoped() bool { return l.table() == vddata }

var supported = map[Level][]Level{
	Lok:    {Cluster},
	Jila:   {Sambhag},
	Vid:    {Cluster, Sambhag, Jila, Lok},
	Mandal: {Cluster, Sambhag, Jila, Lok, Vid},
	Sakha:  {Cluster, Sambhag, Jila, Lok, Vid, Mandal},
	Booth:  {Cluster, Sambhag, Jila, Lok, Vid, Mandal, Sakha},
}

// Supported reports whether column can be projected under ancestor.
func Supported(ancestor, column Level) bool {
	for _, a := range supported[column] {
		if a == ancestor {
			return true
		}
	}
	return false
}
