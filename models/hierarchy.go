package models

// ClusterLink is one row of cludata: a valid (cluster, lok sabha, vidhan sabha)
// combination. Names repeat across rows.
type ClusterLink struct {
	ClusterID   ID   `json:"CLUS_ID"`
	ClusterName Name `json:"CLUS_NM"`
	LokID       ID   `json:"LOK_ID"`
	LokName     Name `json:"LOK_NM"`
	VidID       ID   `json:"VID_ID"`
	VidName     Name `json:"VID_NM"`
}

// SambhagLink is one row of smdata: a (sambhag, jila, vidhan sabha) combination.
type SambhagLink struct {
	SambhagID   ID   `json:"SAM_ID"`
	SambhagName Name `json:"SAM_NM"`
	JilaID      ID   `json:"JILA_ID"`
	JilaName    Name `json:"JILA_NM"`
	VidID       ID   `json:"VID_ID"`
	VidName     Name `json:"VID_NM"`
}

// LeafFact is one row of vddata: a booth with its full lineage below the
// vidhan sabha. Mandal, sakha and booth ids are only unique within a vidhan
// sabha.
type LeafFact struct {
	VidID      ID   `json:"VID_ID"`
	MandalID   ID   `json:"MAN_ID"`
	MandalName Name `json:"MAN_NM"`
	SakhaID    ID   `json:"SAK_ID"`
	SakhaName  Name `json:"SAK_NM"`
	BoothID    ID   `json:"BT_ID"`
	BoothName  Name `json:"BT_NM"`
}
