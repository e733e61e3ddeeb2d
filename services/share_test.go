package services

import (
	"errors"
	"testing"
	"time"

	"github.com/anuragkumar-code/snapengine-v2/models"
)

func TestShareAlbum(t *testing.T) {
	albums, _, _, dbInstance := testServices(t)
	owner := createTestUser(t, dbInstance, "owner@example.com")
	recipient := createTestUser(t, dbInstance, "friend@example.com")
	album := createTestAlbum(t, albums, owner.ID, "Shared")

	share, err := albums.ShareAlbum(album.ID, owner.ID, ShareAlbumInput{
		SharedWith: recipient.ID,
		Message:    "have a look",
	})
	if err != nil {
		t.Fatalf("ShareAlbum() error = %v", err)
	}
	if share.Status != models.ShareStatusPending {
		t.Errorf("Status = %v, want %v", share.Status, models.ShareStatusPending)
	}
	if share.Permissions != models.DefaultSharePermissions() {
		t.Errorf("Permissions = %+v, want the defaults", share.Permissions)
	}
	if share.SharedByID != owner.ID || share.SharedWithID != recipient.ID {
		t.Errorf("share parties = %d->%d, want %d->%d",
			share.SharedByID, share.SharedWithID, owner.ID, recipient.ID)
	}
}

func TestShareAlbumRejections(t *testing.T) {
	albums, _, _, dbInstance := testServices(t)
	owner := createTestUser(t, dbInstance, "owner@example.com")
	recipient := createTestUser(t, dbInstance, "friend@example.com")
	stranger := createTestUser(t, dbInstance, "stranger@example.com")
	album := createTestAlbum(t, albums, owner.ID, "Shared")

	tests := []struct {
		name    string
		albumID uint64
		actorID uint64
		input   ShareAlbumInput
		wantErr error
	}{
		{name: "non-owner cannot share", albumID: album.ID, actorID: stranger.ID,
			input: ShareAlbumInput{SharedWith: recipient.ID}, wantErr: ErrNotFoundOrForbidden},
		{name: "self share", albumID: album.ID, actorID: owner.ID,
			input: ShareAlbumInput{SharedWith: owner.ID}, wantErr: ErrConflict},
		{name: "unknown recipient", albumID: album.ID, actorID: owner.ID,
			input: ShareAlbumInput{SharedWith: 99999}, wantErr: ErrNotFound},
		{name: "missing album", albumID: album.ID + 1000, actorID: owner.ID,
			input: ShareAlbumInput{SharedWith: recipient.ID}, wantErr: ErrNotFoundOrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := albums.ShareAlbum(tt.albumID, tt.actorID, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("ShareAlbum() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// One share row per (album, recipient) regardless of status: pending, accepted
// and declined invitations all block another share of the same album to the
// same user.
func TestShareAlbumDuplicates(t *testing.T) {
	albums, _, _, dbInstance := testServices(t)
	owner := createTestUser(t, dbInstance, "owner@example.com")
	album := createTestAlbum(t, albums, owner.ID, "Shared")

	tests := []struct {
		name     string
		response models.ShareStatus // empty = leave pending
	}{
		{name: "pending blocks"},
		{name: "accepted blocks", response: models.ShareStatusAccepted},
		{name: "declined blocks", response: models.ShareStatusDeclined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipient := createTestUser(t, dbInstance, tt.name+"@example.com")
			share, err := albums.ShareAlbum(album.ID, owner.ID, ShareAlbumInput{SharedWith: recipient.ID})
			if err != nil {
				t.Fatalf("ShareAlbum() error = %v", err)
			}
			if tt.response != "" {
				if _, err = albums.RespondToShare(share.ID, recipient.ID, tt.response); err != nil {
					t.Fatalf("RespondToShare() error = %v", err)
				}
			}
			if _, err = albums.ShareAlbum(album.ID, owner.ID, ShareAlbumInput{SharedWith: recipient.ID}); !errors.Is(err, ErrConflict) {
				t.Errorf("second ShareAlbum() error = %v, want %v", err, ErrConflict)
			}
		})
	}
}

func TestRespondToShareAccept(t *testing.T) {
	albums, _, _, dbInstance := testServices(t)
	owner := createTestUser(t, dbInstance, "owner@example.com")
	recipient := createTestUser(t, dbInstance, "friend@example.com")
	album := createTestAlbum(t, albums, owner.ID, "Shared")

	share, err := albums.ShareAlbum(album.ID, owner.ID, ShareAlbumInput{SharedWith: recipient.ID})
	if err != nil {
		t.Fatal(err)
	}
	accepted, err := albums.RespondToShare(share.ID, recipient.ID, models.ShareStatusAccepted)
	if err != nil {
		t.Fatalf("RespondToShare() error = %v", err)
	}
	if accepted.Status != models.ShareStatusAccepted || accepted.AcceptedAt == nil {
		t.Errorf("accepted share = %+v, want status accepted with a timestamp", accepted)
	}
	if _, err = albums.ResolveAccess(album.ID, recipient.ID); err != nil {
		t.Errorf("ResolveAccess() after accept error = %v", err)
	}
}

func TestRespondToShareSingleShot(t *testing.T) {
	albums, _, _, dbInstance := testServices(t)
	owner := createTestUser(t, dbInstance, "owner@example.com")
	recipient := createTestUser(t, dbInstance, "friend@example.com")
	stranger := createTestUser(t, dbInstance, "stranger@example.com")
	album := createTestAlbum(t, albums, owner.ID, "Shared")

	share, err := albums.ShareAlbum(album.ID, owner.ID, ShareAlbumInput{SharedWith: recipient.ID})
	if err != nil {
		t.Fatal(err)
	}

	if _, err = albums.RespondToShare(share.ID, recipient.ID, "maybe"); !errors.Is(err, ErrValidation) {
		t.Errorf("RespondToShare(maybe) error = %v, want %v", err, ErrValidation)
	}
	if _, err = albums.RespondToShare(share.ID, stranger.ID, models.ShareStatusAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("RespondToShare() by stranger error = %v, want %v", err, ErrNotFound)
	}

	if _, err = albums.RespondToShare(share.ID, recipient.ID, models.ShareStatusDeclined); err != nil {
		t.Fatalf("RespondToShare() error = %v", err)
	}
	// The transition is single-shot: a resolved share cannot be re-answered
	if _, err = albums.RespondToShare(share.ID, recipient.ID, models.ShareStatusAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RespondToShare() error = %v, want %v", err, ErrNotFound)
	}
	if _, err = albums.ResolveAccess(album.ID, recipient.ID); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Errorf("ResolveAccess() after decline error = %v, want %v", err, ErrNotFoundOrForbidden)
	}
}

func TestRespondToShareExpired(t *testing.T) {
	albums, _, _, dbInstance := testServices(t)
	owner := createTestUser(t, dbInstance, "owner@example.com")
	recipient := createTestUser(t, dbInstance, "friend@example.com")
	album := createTestAlbum(t, albums, owner.ID, "Expired")

	share, err := albums.ShareAlbum(album.ID, owner.ID, ShareAlbumInput{
		SharedWith: recipient.ID,
		ExpiresAt:  time.Now().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = albums.RespondToShare(share.ID, recipient.ID, models.ShareStatusAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("accepting an expired share error = %v, want %v", err, ErrNotFound)
	}
	// Declining an expired invitation is still allowed
	if _, err = albums.RespondToShare(share.ID, recipient.ID, models.ShareStatusDeclined); err != nil {
		t.Errorf("declining an expired share error = %v", err)
	}
}
