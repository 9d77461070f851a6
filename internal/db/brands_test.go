package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"plum/internal/models"
)

func TestCreateBrand_DuplicateName(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestUser(t, db, "brand-owner")
	createTestBrand(t, db, owner, "Acme")

	err := db.CreateBrand(context.Background(), &models.Brand{OwnerID: owner.ID, Name: "Acme"})
	if err != ErrDuplicateBrand {
		t.Errorf("CreateBrand() error = %v, want ErrDuplicateBrand", err)
	}
}

func TestGetBrandForOwner(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	brand := createTestBrand(t, db, owner, "Acme")

	found, err := db.GetBrandForOwner(ctx, owner.ID, brand.ID)
	if err != nil {
		t.Fatalf("GetBrandForOwner() error = %v", err)
	}
	if found.Name != "Acme" {
		t.Errorf("GetBrandForOwner() name = %q, want %q", found.Name, "Acme")
	}

	if _, err := db.GetBrandForOwner(ctx, other.ID, brand.ID); err != ErrBrandNotFound {
		t.Errorf("GetBrandForOwner() for other user error = %v, want ErrBrandNotFound", err)
	}
	if _, err := db.GetBrandForOwner(ctx, owner.ID, uuid.New()); err != ErrBrandNotFound {
		t.Errorf("GetBrandForOwner() unknown id error = %v, want ErrBrandNotFound", err)
	}
}

func TestListUpdateDeleteBrands(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestUser(t, db, "lister")
	beta := createTestBrand(t, db, owner, "Beta")
	createTestBrand(t, db, owner, "Alpha")

	brands, err := db.ListBrandsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListBrandsByOwner() error = %v", err)
	}
	if len(brands) != 2 || brands[0].Name != "Alpha" {
		t.Fatalf("ListBrandsByOwner() = %+v, want Alpha first of 2", brands)
	}

	beta.Tone = "friendly"
	if err := db.UpdateBrand(ctx, beta); err != nil {
		t.Fatalf("UpdateBrand() error = %v", err)
	}
	found, _ := db.GetBrandForOwner(ctx, owner.ID, beta.ID)
	if found.Tone != "friendly" {
		t.Errorf("UpdateBrand() tone = %q, want %q", found.Tone, "friendly")
	}

	if err := db.DeleteBrand(ctx, owner.ID, beta.ID); err != nil {
		t.Fatalf("DeleteBrand() error = %v", err)
	}
	if err := db.DeleteBrand(ctx, owner.ID, beta.ID); err != ErrBrandNotFound {
		t.Errorf("DeleteBrand() twice error = %v, want ErrBrandNotFound", err)
	}
}
