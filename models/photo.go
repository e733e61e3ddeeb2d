package models

type Photo struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"index:album_order,priority:3"`
	UpdatedAt int64
	AlbumID   uint64 `gorm:"not null;index:album_order,priority:1"`
	Album     Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// The uploading user, not necessarily the album owner
	UserID       uint64 `gorm:"not null;index"`
	User         User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Filename     string `gorm:"type:varchar(255);not null"`
	OriginalName string `gorm:"type:varchar(255)"`
	// The three derivative paths are written together as a set
	OriginalPath string `gorm:"type:varchar(500);not null"`
	MediumPath   string `gorm:"type:varchar(500);not null"`
	ThumbPath    string `gorm:"type:varchar(500);not null"`
	FileSize     int64  `gorm:"not null"`
	MimeType     string `gorm:"type:varchar(100)"`
	Width        int
	Height       int
	Caption      string `gorm:"type:text"`
	Tags         string `gorm:"type:text"`
	IsPrivate    bool   `gorm:"not null;default:false;index"`
	IsCover      bool   `gorm:"not null;default:false"`
	// Per-album monotonic sequence, never reused
	OrderIndex int64 `gorm:"not null;default:0;index:album_order,priority:2"`
}

// DerivativePaths returns all stored file paths for this photo, in
// original/medium/thumb order.
func (p *Photo) DerivativePaths() []string {
	return []string{p.OriginalPath, p.MediumPath, p.ThumbPath}
}

func (p *Photo) TagList() []string {
	return DecodeTags(p.Tags)
}

func (p *Photo) SetTagList(tags []string) {
	p.Tags = EncodeTags(tags)
}
