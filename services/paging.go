package services

const (
	defaultAlbumLimit    = 10
	defaultPhotoLimit    = 20
	defaultActivityLimit = 20
	maxPageLimit         = 100
)

type PageOptions struct {
	Page  int
	Limit int
}

func (o PageOptions) normalize(defaultLimit int) (page, limit int) {
	page = o.Page
	if page < 1 {
		page = 1
	}
	limit = o.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// sortColumn whitelists order-by columns so request parameters can never
// reach SQL unchecked.
func sortColumn(requested, fallback string, allowed ...string) string {
	for _, column := range allowed {
		if requested == column {
			return column
		}
	}
	return fallback
}

func sortDirection(requested string) string {
	if requested == "ASC" || requested == "asc" {
		return "ASC"
	}
	return "DESC"
}
