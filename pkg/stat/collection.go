package stat

import "sort"

// Well-known role names.
const (
	RoleDefault = "default"
	RoleV1      = "v1"
	RoleV2      = "v2"
	RoleSize    = "size"
	RoleColor   = "color"
)

// Collection groups indexes by role name. A role that was never set reads as
// an empty index, so every region of it is "no data".
type Collection struct {
	roles map[string]*Index
	order []string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{roles: make(map[string]*Index)}
}

// Put replaces the index for a role.
func (c *Collection) Put(role string, ix *Index) {
	if _, ok := c.roles[role]; !ok {
		c.order = append(c.order, role)
	}
	c.roles[role] = ix
}

// Role returns the index for a role, or an empty index if none was set.
func (c *Collection) Role(role string) *Index {
	if c != nil {
		if ix, ok := c.roles[role]; ok && ix != nil {
			return ix
		}
	}
	return NewIndex()
}

// Has reports whether a role has been set.
func (c *Collection) Has(role string) bool {
	if c == nil {
		return false
	}
	_, ok := c.roles[role]
	return ok
}

// Roles returns role names in insertion order.
func (c *Collection) Roles() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Ready reports whether every listed role has been loaded. The missing roles
// are returned sorted.
func (c *Collection) Ready(roles ...string) (bool, []string) {
	var missing []string
	for _, r := range roles {
		if !c.Has(r) {
			missing = append(missing, r)
		}
	}
	sort.Strings(missing)
	return len(missing) == 0, missing
}
