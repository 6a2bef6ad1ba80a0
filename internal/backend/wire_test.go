package backend

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func mustObject(t *testing.T, s string) rawObject {
	t.Helper()
	var o rawObject
	if err := json.Unmarshal([]byte(s), &o); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestToCategory_FallbackNames(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantID   int64
		wantName string
		wantDate bool
	}{
		{name: "idCategoria + nombreCategoria", json: `{"idCategoria":1,"nombreCategoria":"Bebidas"}`, wantID: 1, wantName: "Bebidas"},
		{name: "id + nombre", json: `{"id":"2","nombre":"Snacks","fechaCreacion":"2024-03-05"}`, wantID: 2, wantName: "Snacks", wantDate: true},
		{name: "categoriaId, null в приоритетном поле", json: `{"idCategoria":null,"categoriaId":3,"createdAt":"2024-03-05T10:00:00"}`, wantID: 3, wantDate: true},
		{name: "неразбираемая дата", json: `{"id":4,"fecha":"ayer"}`, wantID: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := toCategory(mustObject(t, tt.json))
			if c.ID != tt.wantID || c.Name != tt.wantName {
				t.Errorf("категория = %+v", c)
			}
			if (c.CreatedAt != nil) != tt.wantDate {
				t.Errorf("CreatedAt = %v, хотели наличие %v", c.CreatedAt, tt.wantDate)
			}
		})
	}
}

func TestToProduct_FallbackNames(t *testing.T) {
	p := toProduct(mustObject(t, `{
		"id": 9,
		"nombreProducto": "Café",
		"precioUnitario": "3.75",
		"stock": 4,
		"imagenUrl": "https://cdn.example/c.png",
		"categoria": {"idCategoria": 2},
		"fechaIngreso": 1714521600000
	}`))

	if p.ID != 9 || p.Name != "Café" || p.Price != 3.75 || p.Stock != 4 {
		t.Errorf("товар = %+v", p)
	}
	if p.ImageURL != "https://cdn.example/c.png" {
		t.Errorf("ImageURL = %q", p.ImageURL)
	}
	if p.CategoryID != 2 {
		t.Errorf("CategoryID = %d, хотели 2", p.CategoryID)
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if p.CreatedAt == nil || !p.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, хотели %v", p.CreatedAt, want)
	}
}

func TestDecodeAuthorities(t *testing.T) {
	if got := decodeAuthorities(json.RawMessage(`["ROLE_ADMIN"]`)); len(got) != 1 || got[0] != "ROLE_ADMIN" {
		t.Errorf("строки: %v", got)
	}
	if got := decodeAuthorities(json.RawMessage(`[{"authority":"ROLE_CLIENTE"},{"authority":""}]`)); len(got) != 1 || got[0] != "ROLE_CLIENTE" {
		t.Errorf("объекты: %v", got)
	}
	if got := decodeAuthorities(json.RawMessage(`42`)); got != nil {
		t.Errorf("мусор: %v", got)
	}
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantItems int
		wantPages int
		wantErr   bool
	}{
		{name: "массив", body: `[{"id":1,"name":"Bebidas"},null]`, wantItems: 1, wantPages: 1},
		{name: "конверт", body: `{"content":[{"id":1}],"number":0,"size":10,"totalElements":25}`, wantItems: 1, wantPages: 3},
		{name: "content null", body: `{"content":null,"number":0,"size":10,"totalElements":0}`, wantItems: 0, wantPages: 1},
		{name: "пустой ответ", body: ``, wantItems: 0, wantPages: 1},
		{name: "объект без content", body: `{"number":0}`, wantErr: true},
		{name: "content не массив", body: `{"content":"x"}`, wantErr: true},
		{name: "число", body: `42`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodeList([]byte(tt.body), 10, toCategory)
			if tt.wantErr {
				if !errors.Is(err, errMalformed) {
					t.Fatalf("err = %v, хотели errMalformed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeList() error = %v", err)
			}
			if len(page.Items) != tt.wantItems {
				t.Errorf("len(Items) = %d, хотели %d", len(page.Items), tt.wantItems)
			}
			if page.Items == nil {
				t.Error("Items = nil, хотели пустой срез")
			}
			if page.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, хотели %d", page.TotalPages, tt.wantPages)
			}
		})
	}
}
