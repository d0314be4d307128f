package security

import "strings"

// Permissions is the decoded view of the /P bitmask from the encryption
// dictionary, bit numbering per the standard security handler.
type Permissions struct {
	Print            bool // bit 3
	Modify           bool // bit 4
	Copy             bool // bit 5
	Annotate         bool // bit 6
	FillForms        bool // bit 9
	Extract          bool // bit 10
	Assemble         bool // bit 11
	PrintHighQuality bool // bit 12
}

// permissionFlag pairs a /P bit with its operation name.
type permissionFlag struct {
	mask int32
	name string
	get  func(Permissions) bool
}

var permissionFlags = []permissionFlag{
	{0x04, "print", func(p Permissions) bool { return p.Print }},
	{0x08, "modify", func(p Permissions) bool { return p.Modify }},
	{0x10, "copy", func(p Permissions) bool { return p.Copy }},
	{0x20, "annotate", func(p Permissions) bool { return p.Annotate }},
	{0x200, "fill_forms", func(p Permissions) bool { return p.FillForms }},
	{0x400, "extract", func(p Permissions) bool { return p.Extract }},
	{0x800, "assemble", func(p Permissions) bool { return p.Assemble }},
	{0x1000, "print_high_quality", func(p Permissions) bool { return p.PrintHighQuality }},
}

// NewPermissions decodes a /P bitmask.
func NewPermissions(perms int32) Permissions {
	return Permissions{
		Print:            perms&0x04 != 0,
		Modify:           perms&0x08 != 0,
		Copy:             perms&0x10 != 0,
		Annotate:         perms&0x20 != 0,
		FillForms:        perms&0x200 != 0,
		Extract:          perms&0x400 != 0,
		Assemble:         perms&0x800 != 0,
		PrintHighQuality: perms&0x1000 != 0,
	}
}

// AllowedOperations returns the names of the operations the mask grants,
// in bit order.
func (p Permissions) AllowedOperations() []string {
	var allowed []string
	for _, f := range permissionFlags {
		if f.get(p) {
			allowed = append(allowed, f.name)
		}
	}
	return allowed
}

// DeniedOperations returns the names of the operations the mask withholds.
func (p Permissions) DeniedOperations() []string {
	var denied []string
	for _, f := range permissionFlags {
		if !f.get(p) {
			denied = append(denied, f.name)
		}
	}
	return denied
}

// String lists the granted operations, comma separated.
func (p Permissions) String() string {
	allowed := p.AllowedOperations()
	if len(allowed) == 0 {
		return "none"
	}
	return strings.Join(allowed, ", ")
}
