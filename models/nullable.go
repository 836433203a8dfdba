package models

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// ID is a nullable integer column (CLUS_ID, VID_ID, BT_ID, ...).
type ID struct {
	Value int64
	Valid bool
}

// Some returns a present ID.
func Some(v int64) ID {
	return ID{Value: v, Valid: true}
}

func (id *ID) Scan(src any) error {
	var n sql.NullInt64
	if err := n.Scan(src); err != nil {
		return err
	}
	id.Value, id.Valid = n.Int64, n.Valid
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if !id.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(id.Value)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ID{}
		return nil
	}
	if err := json.Unmarshal(b, &id.Value); err != nil {
		return err
	}
	id.Valid = true
	return nil
}

// Name is a nullable text column. Empty strings count as absent.
type Name struct {
	Value string
	Valid bool
}

// Named returns a present Name.
func Named(s string) Name {
	return Name{Value: s, Valid: true}
}

// Present reports whether the name is non-null and non-blank.
func (n Name) Present() bool {
	return n.Valid && strings.TrimSpace(n.Value) != ""
}

func (n *Name) Scan(src any) error {
	var s sql.NullString
	if err := s.Scan(src); err != nil {
		return err
	}
	n.Value, n.Valid = s.String, s.Valid
	return nil
}

func (n Name) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Name) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Name{}
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
