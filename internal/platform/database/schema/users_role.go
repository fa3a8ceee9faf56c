// Copyright (c) 2026 TeamHub. All rights reserved.

package schema

// UserRoleTable represents the 'users.role' table
type UserRoleTable struct {
	Table       string
	ID          string
	Name        string
	Permissions string
	CreatedAt   string
	UpdatedAt   string
}

// UserRole is the schema definition for users.role
var UserRole = UserRoleTable{
	Table:       "users.role",
	ID:          "id",
	Name:        "name",
	Permissions: "permissions",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t UserRoleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Permissions, t.CreatedAt, t.UpdatedAt}
}
