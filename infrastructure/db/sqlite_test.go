package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/assets"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	"github.com/stretchr/testify/assert"
)

// testDBPath is the path to the test database file
const testDBPath = "test.db"

// Helper function to clean up test database
func cleanupTestDB(t *testing.T) {
	err := os.Remove(testDBPath)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("Failed to clean up test database: %v", err)
	}
}

// Helper function to create a test repository
func createTestRepository(t *testing.T) *SQLiteRepository {
	cleanupTestDB(t)

	repo, err := NewSQLiteRepository(testDBPath)
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}

	return repo
}

func testProduct(code string) *catalog.Product {
	return &catalog.Product{
		Code:      code,
		Name:      "Test product " + code,
		Barcode:   "779" + code,
		CreatedAt: time.Now().Truncate(time.Second), // SQLite may not preserve nanoseconds
	}
}

func TestNewSQLiteRepository(t *testing.T) {
	// Cleanup after test
	defer cleanupTestDB(t)

	// Act
	repo, err := NewSQLiteRepository(testDBPath)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)

	// Clean up
	err = repo.Close()
	assert.NoError(t, err)
}

func TestNewSQLiteRepository_InvalidPath(t *testing.T) {
	// Act - Try to create a repository with an invalid path
	repo, err := NewSQLiteRepository("/invalid/path/db.sqlite")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestSQLiteRepository_StoreProduct(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	p := testProduct("A001")

	// Act
	err := repo.StoreProduct(context.Background(), p)

	// Assert
	assert.NoError(t, err)
	assert.NotZero(t, p.ID)

	found, err := repo.FindProduct(context.Background(), p.ID)
	assert.NoError(t, err)
	assert.Equal(t, "A001", found.Code)
	assert.Equal(t, p.Name, found.Name)
}

func TestSQLiteRepository_StoreProduct_DuplicateCode(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	err := repo.StoreProduct(context.Background(), testProduct("DUP"))
	assert.NoError(t, err)

	// Act
	err = repo.StoreProduct(context.Background(), testProduct("DUP"))

	// Assert
	assert.Error(t, err)
	assert.Equal(t, constant.ErrProductCodeExists, err.Error())
}

func TestSQLiteRepository_FindProduct_NotFound(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	// Act
	found, err := repo.FindProduct(context.Background(), 999)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, found)
	assert.Equal(t, constant.ErrProductNotFound, err.Error())
}

func TestSQLiteRepository_ListProducts_OrderedByCode(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	assert.NoError(t, repo.StoreProduct(context.Background(), testProduct("B002")))
	assert.NoError(t, repo.StoreProduct(context.Background(), testProduct("A001")))

	// Act
	products, err := repo.ListProducts(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "A001", products[0].Code)
	assert.Equal(t, "B002", products[1].Code)
}

func TestSQLiteRepository_FindProductsByIDs(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	p1 := testProduct("A001")
	p2 := testProduct("B002")
	p3 := testProduct("C003")
	assert.NoError(t, repo.StoreProduct(context.Background(), p1))
	assert.NoError(t, repo.StoreProduct(context.Background(), p2))
	assert.NoError(t, repo.StoreProduct(context.Background(), p3))

	// Act - include one unknown id
	products, err := repo.FindProductsByIDs(context.Background(), []uint{p1.ID, p3.ID, 999})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "A001", products[0].Code)
	assert.Equal(t, "C003", products[1].Code)
}

func TestSQLiteRepository_FindProductsByIDs_Empty(t *testing.T) {
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	products, err := repo.FindProductsByIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestSQLiteRepository_StoreLocation_DemotesPreviousPrimary(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	p := testProduct("A001")
	assert.NoError(t, repo.StoreProduct(context.Background(), p))

	first := &catalog.ProductLocation{ProductID: p.ID, Warehouse: "Central", Aisle: "A1", Shelf: "S1", IsPrimary: true}
	assert.NoError(t, repo.StoreLocation(context.Background(), first))

	// Act - a new primary location replaces the old one as primary
	second := &catalog.ProductLocation{ProductID: p.ID, Warehouse: "North", Aisle: "B2", Shelf: "S2", IsPrimary: true}
	assert.NoError(t, repo.StoreLocation(context.Background(), second))

	// Assert
	locations, err := repo.FindLocationsByProductIDs(context.Background(), []uint{p.ID})
	assert.NoError(t, err)
	assert.Len(t, locations, 2)

	primaries := 0
	for _, loc := range locations {
		if loc.IsPrimary {
			primaries++
			assert.Equal(t, "North", loc.Warehouse)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestSQLiteRepository_FindLocationsByProductIDs_PrimaryFirst(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	p := testProduct("A001")
	assert.NoError(t, repo.StoreProduct(context.Background(), p))
	assert.NoError(t, repo.StoreLocation(context.Background(), &catalog.ProductLocation{ProductID: p.ID, Warehouse: "Central", IsPrimary: false}))
	assert.NoError(t, repo.StoreLocation(context.Background(), &catalog.ProductLocation{ProductID: p.ID, Warehouse: "North", IsPrimary: true}))

	// Act
	locations, err := repo.FindLocationsByProductIDs(context.Background(), []uint{p.ID})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, locations, 2)
	assert.True(t, locations[0].IsPrimary)
}

func TestSQLiteRepository_UpsertQR_InsertThenReplace(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	p := testProduct("A001")
	assert.NoError(t, repo.StoreProduct(context.Background(), p))

	first := &assets.QRAsset{
		ProductID: p.ID,
		Payload:   "A001 Test product",
		Path:      "qr/1/first.png",
		CreatedAt: time.Now().Truncate(time.Second),
	}

	// Act - first upsert inserts
	oldPath, err := repo.UpsertQR(context.Background(), first)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "", oldPath)
	assert.NotZero(t, first.ID)

	// Act - second upsert replaces and reports the replaced path
	second := &assets.QRAsset{
		ProductID: p.ID,
		Payload:   "A001 Test product",
		Path:      "qr/1/second.png",
		CreatedAt: time.Now().Truncate(time.Second),
	}
	oldPath, err = repo.UpsertQR(context.Background(), second)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "qr/1/first.png", oldPath)
	assert.Equal(t, first.ID, second.ID)

	rows, err := repo.FindQRByProductIDs(context.Background(), []uint{p.ID})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "qr/1/second.png", rows[0].Path)
}

func TestSQLiteRepository_UpsertLabel_InsertThenReplace(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	p := testProduct("A001")
	assert.NoError(t, repo.StoreProduct(context.Background(), p))

	first := &assets.LabelAsset{
		ProductID:  p.ID,
		Path:       "labels/1/first.png",
		ConfigHash: "abc123",
		ConfigJSON: `{"config":{}}`,
		CreatedAt:  time.Now().Truncate(time.Second),
	}

	// Act
	oldPath, err := repo.UpsertLabel(context.Background(), first)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "", oldPath)

	second := &assets.LabelAsset{
		ProductID:  p.ID,
		Path:       "labels/1/second.png",
		ConfigHash: "def456",
		ConfigJSON: `{"config":{}}`,
		CreatedAt:  time.Now().Truncate(time.Second),
	}
	oldPath, err = repo.UpsertLabel(context.Background(), second)

	assert.NoError(t, err)
	assert.Equal(t, "labels/1/first.png", oldPath)

	rows, err := repo.FindLabelByProductIDs(context.Background(), []uint{p.ID})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "def456", rows[0].ConfigHash)
}

func TestSQLiteRepository_FindQRByProductIDs_Empty(t *testing.T) {
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	rows, err := repo.FindQRByProductIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, rows)
}
