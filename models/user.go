package models

import "time"

// Roles accepted by the user directory.
const (
	RoleAdmin           = "ADMIN"
	RoleDistrictUser    = "DISTRICT_USER"
	RoleVidhanSabhaUser = "VIDHANSABHA_USER"
	RoleLokSabhaUser    = "LOKSABHA_USER"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDistrictUser, RoleVidhanSabhaUser, RoleLokSabhaUser:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Code      string    `json:"code" bson:"code"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
