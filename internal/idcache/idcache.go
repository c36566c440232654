// Package idcache resolves numeric uids/gids to names and back, caching
// every lookup for the lifetime of one Cache (spec.md §3: "user- and
// group-name caches are per-run, per-engine, not shared"). No pack example
// wraps os/user for this; it is the idiomatic stdlib tool for the job and
// is justified directly in DESIGN.md.
package idcache

import (
	"os/user"
	"strconv"
)

// Cache memoizes os/user lookups in both directions. Construct it with New:
// the zero value has nil maps and is not usable. Callers construct one
// fresh Cache per engine Run.
type Cache struct {
	uidToName map[int]string
	gidToName map[int]string
	nameToUID map[string]int
	nameToGID map[string]int
}

// New returns a ready-to-use, empty Cache.
func New() *Cache {
	return &Cache{
		uidToName: map[int]string{},
		gidToName: map[int]string{},
		nameToUID: map[string]int{},
		nameToGID: map[string]int{},
	}
}

// UserName resolves uid to a username, caching the result. Returns "" if
// the uid has no matching account (not an error: anonymous/deleted
// accounts are common in archives moved between hosts).
func (c *Cache) UserName(uid int) string {
	if name, ok := c.uidToName[uid]; ok {
		return name
	}
	name := ""
	if u, err := user.LookupId(strconv.Itoa(uid)); err == nil {
		name = u.Username
	}
	c.uidToName[uid] = name
	return name
}

// GroupName resolves gid to a group name, caching the result.
func (c *Cache) GroupName(gid int) string {
	if name, ok := c.gidToName[gid]; ok {
		return name
	}
	name := ""
	if g, err := user.LookupGroupId(strconv.Itoa(gid)); err == nil {
		name = g.Name
	}
	c.gidToName[gid] = name
	return name
}

// UID resolves a username back to a uid, caching the result. ok is false
// when name is empty or unknown on this host, in which case the caller
// falls back to whatever numeric uid it already has (spec.md §4.6.4 step
// 6: name resolution is best-effort, never fatal).
func (c *Cache) UID(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	if uid, ok := c.nameToUID[name]; ok {
		return uid, true
	}
	u, err := user.Lookup(name)
	if err != nil {
		return 0, false
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, false
	}
	c.nameToUID[name] = uid
	return uid, true
}

// GID resolves a group name back to a gid, caching the result.
func (c *Cache) GID(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	if gid, ok := c.nameToGID[name]; ok {
		return gid, true
	}
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, false
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, false
	}
	c.nameToGID[name] = gid
	return gid, true
}
