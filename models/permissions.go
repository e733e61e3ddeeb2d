package models

// Capability is the closed set of actions a share can grant. Checks go through
// SharePermissions.Has so an unknown capability can never silently pass.
type Capability uint8

const (
	CapabilityView Capability = iota
	CapabilityAdd
	CapabilityEdit
	CapabilityDelete
	CapabilityComment
	CapabilityDownload
)

func (c Capability) String() string {
	switch c {
	case CapabilityView:
		return "view"
	case CapabilityAdd:
		return "add"
	case CapabilityEdit:
		return "edit"
	case CapabilityDelete:
		return "delete"
	case CapabilityComment:
		return "comment"
	case CapabilityDownload:
		return "download"
	}
	return "unknown"
}

// SharePermissions is the capability record stored on each share, one column
// per flag.
type SharePermissions struct {
	CanView     bool `json:"can_view"`
	CanAdd      bool `json:"can_add"`
	CanEdit     bool `json:"can_edit"`
	CanDelete   bool `json:"can_delete"`
	CanComment  bool `json:"can_comment"`
	CanDownload bool `json:"can_download"`
}

func (p SharePermissions) Has(c Capability) bool {
	switch c {
	case CapabilityView:
		return p.CanView
	case CapabilityAdd:
		return p.CanAdd
	case CapabilityEdit:
		return p.CanEdit
	case CapabilityDelete:
		return p.CanDelete
	case CapabilityComment:
		return p.CanComment
	case CapabilityDownload:
		return p.CanDownload
	}
	return false
}

// OwnerPermissions is the full capability set granted to album owners.
func OwnerPermissions() SharePermissions {
	return SharePermissions{
		CanView:     true,
		CanAdd:      true,
		CanEdit:     true,
		CanDelete:   true,
		CanComment:  true,
		CanDownload: true,
	}
}

// DefaultSharePermissions is used when a share request carries no explicit
// capability record.
func DefaultSharePermissions() SharePermissions {
	return SharePermissions{
		CanView:     true,
		CanComment:  true,
		CanDownload: true,
	}
}
