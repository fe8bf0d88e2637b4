package unit

import (
	"os/user"
	"strconv"
	"syscall"
)

// resolveUID resolves a user name or numeric uid to a uid. Unknown names
// silently fall back to the current process's uid, per spec.
func resolveUID(name string) uint32 {
	current := uint32(syscall.Getuid())
	if name == "" {
		return current
	}
	if uid, err := strconv.ParseUint(name, 10, 32); err == nil {
		return uint32(uid)
	}
	u, err := user.Lookup(name)
	if err != nil {
		return current
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return current
	}
	return uint32(uid)
}

// resolveGID resolves a group name or numeric gid to a gid. Unknown names
// silently fall back to the current process's gid, per spec.
func resolveGID(name string) uint32 {
	current := uint32(syscall.Getgid())
	if name == "" {
		return current
	}
	if gid, err := strconv.ParseUint(name, 10, 32); err == nil {
		return uint32(gid)
	}
	g, err := user.LookupGroup(name)
	if err != nil {
		return current
	}
	gid, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return current
	}
	return uint32(gid)
}

// ResolveCredentials resolves a user/group name-or-id pair to a numeric
// uid/gid pair, falling back to the current process's identity for any
// name that does not resolve (documented behavior, spec.md §6).
func ResolveCredentials(userName, groupName string) (uid, gid uint32) {
	return resolveUID(userName), resolveGID(groupName)
}

// applyCredential sets the uid/gid a child process should run as.
func applyCredential(attr *syscall.SysProcAttr, uid, gid uint32) {
	attr.Credential = &syscall.Credential{Uid: uid, Gid: gid}
}
