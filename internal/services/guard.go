package services

import "recommread/internal/models"

// CanMutate reports whether actingUserID may update or delete story. Only the
// author may; there is no role override.
func CanMutate(actingUserID uint, story *models.Story) bool {
	return story != nil && actingUserID != 0 && actingUserID == story.AuthorID
}
