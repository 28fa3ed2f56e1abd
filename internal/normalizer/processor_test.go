package normalizer

import (
	"errors"
	"testing"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(Options{})
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(Options{})

	products, err := p.Process([]string{"Producto A", "Producto B"})
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("Process returned %d products, want 2", len(products))
	}

	if products[0].ID != "producto-a" || products[1].ID != "producto-b" {
		t.Errorf("ids = %q, %q; want producto-a, producto-b", products[0].ID, products[1].ID)
	}
}

func TestProcessor_Process_ValidationError(t *testing.T) {
	p := NewProcessor(Options{Policy: PolicyReject})

	products, err := p.Process([]string{"Producto A", "PRODUCTO A"})
	if !errors.Is(err, ErrDuplicateProduct) {
		t.Errorf("Process error = %v, want ErrDuplicateProduct", err)
	}

	if products != nil {
		t.Error("Process expected nil result for invalid header")
	}
}

func TestProcessor_Process_Unicode(t *testing.T) {
	p := NewProcessor(Options{AllowUnicode: true})

	products, err := p.Process([]string{"Cámaras"})
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if products[0].ID != "cámaras" {
		t.Errorf("ID = %q, want cámaras", products[0].ID)
	}
}
