package models

import "strings"

// Tags live in the domain as ordered string slices and are comma-joined only
// in the database column.

func EncodeTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, tag)
	}
	return strings.Join(cleaned, ",")
}

func DecodeTags(encoded string) []string {
	if encoded == "" {
		return []string{}
	}
	parts := strings.Split(encoded, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tags = append(tags, part)
	}
	return tags
}
