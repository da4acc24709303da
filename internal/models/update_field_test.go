package models

import (
	"encoding/json"
	"testing"
)

func TestUpdateFieldRequestDecode(t *testing.T) {
	t.Run("string field", func(t *testing.T) {
		req := UpdateFieldRequest{Field: "name", Value: json.RawMessage(`"  Modern Tap "`)}
		u, err := req.Decode()
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if u.Field != FieldName || u.Text != "Modern Tap" {
			t.Fatalf("decoded %+v", u)
		}
	})

	t.Run("dimensions list", func(t *testing.T) {
		req := UpdateFieldRequest{
			Field: "itemSize",
			Value: json.RawMessage(`[{"length":"10","width":"4","height":"3"}]`),
		}
		u, err := req.Decode()
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(u.Sizes) != 1 || u.Sizes[0].Length != "10" {
			t.Fatalf("decoded %+v", u.Sizes)
		}
	})

	t.Run("numeric field", func(t *testing.T) {
		req := UpdateFieldRequest{Field: "price", Value: json.RawMessage(`42.5`)}
		u, err := req.Decode()
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if u.Number != 42.5 {
			t.Fatalf("price = %v", u.Number)
		}
	})

	t.Run("rejected inputs", func(t *testing.T) {
		bad := []UpdateFieldRequest{
			{Field: "", Value: json.RawMessage(`"x"`)},
			{Field: "slug", Value: json.RawMessage(`"haxx"`)},
			{Field: "itemSKU", Value: json.RawMessage(`"haxx"`)},
			{Field: "price", Value: json.RawMessage(`"not a number"`)},
			{Field: "price", Value: json.RawMessage(`0`)},
			{Field: "name", Value: json.RawMessage(`""`)},
			{Field: "otherMaterial", Value: json.RawMessage(`"should be a list"`)},
		}
		for _, req := range bad {
			if _, err := req.Decode(); err == nil {
				t.Errorf("field %q value %s: expected error", req.Field, req.Value)
			}
		}
	})
}
