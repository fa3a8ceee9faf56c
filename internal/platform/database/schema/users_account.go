// Copyright (c) 2026 TeamHub. All rights reserved.

// Package schema centralizes table and column identifiers for every query in
// the codebase. Stores build their SQL from these definitions so a rename
// happens in exactly one place.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Name:      "name",
	Email:     "email",
	Password:  "passwordhash",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Name, t.Email, t.Password, t.CreatedAt, t.UpdatedAt}
}
