// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package authz implements the permission gate guarding protected operations.

Decisions are computed per check: the gate loads the principal's roles from
storage on every call and takes the union of their permission tags. Nothing is
cached in the session token, so granting or revoking a permission on a role is
effective on the very next request of every user holding that role.
*/
package authz

// Permission is an opaque tag naming a single guarded capability.
//
// Tags follow the "<resource>_<action>" convention. The gate never interprets
// a tag's structure; matching is exact string equality.
type Permission string

// # Permission Catalog

// Task management permissions.
const (
	TaskView   Permission = "task_view"
	TaskCreate Permission = "task_create"
	TaskUpdate Permission = "task_update"
	TaskDelete Permission = "task_delete"
)

// User administration permissions.
const (
	UserView   Permission = "user_view"
	UserCreate Permission = "user_create"
	UserUpdate Permission = "user_update"
	UserDelete Permission = "user_delete"
)

// Role administration permissions.
const (
	RoleView   Permission = "role_view"
	RoleCreate Permission = "role_create"
	RoleUpdate Permission = "role_update"
	RoleDelete Permission = "role_delete"
)

// All returns the complete permission catalog.
//
// Used to validate tags on role mutations and to seed the SuperAdmin role.
func All() []string {
	return []string{
		string(TaskView), string(TaskCreate), string(TaskUpdate), string(TaskDelete),
		string(UserView), string(UserCreate), string(UserUpdate), string(UserDelete),
		string(RoleView), string(RoleCreate), string(RoleUpdate), string(RoleDelete),
	}
}
