package main

import (
	"testing"
	"time"
)

func TestNewProduct(t *testing.T) {
	// Arrange
	id := "test-product-123"
	name := "Mechanical Keyboard"
	price := 250.0
	stock := 10

	// Act
	product := NewProduct(id, name, "a keyboard", price, stock, "peripherals")

	// Assert
	if product.ID != id {
		t.Errorf("Expected ID %s, got %s", id, product.ID)
	}
	if product.Name != name {
		t.Errorf("Expected Name %s, got %s", name, product.Name)
	}
	if product.Price != price {
		t.Errorf("Expected Price %f, got %f", price, product.Price)
	}
	if product.Stock != stock {
		t.Errorf("Expected Stock %d, got %d", stock, product.Stock)
	}
	if product.Approved {
		t.Error("Expected new product to start unapproved")
	}
	if product.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	now := time.Now()
	if product.CreatedAt.After(now) || product.CreatedAt.Before(now.Add(-time.Second)) {
		t.Error("CreatedAt is not within expected time range")
	}
}

func TestMovementTypes(t *testing.T) {
	if MovementTypeReserved != "reserved" {
		t.Errorf("Expected MovementTypeReserved to be 'reserved', got %s", MovementTypeReserved)
	}
	if MovementTypeRestored != "restored" {
		t.Errorf("Expected MovementTypeRestored to be 'restored', got %s", MovementTypeRestored)
	}
}
