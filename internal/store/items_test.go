package store

import (
	"testing"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/list"
)

func TestAddItem_InsertsAtHead(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID

	first, err := s.AddItem(AddItemInput{ListID: listID, Text: "Milk"})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	second, err := s.AddItem(AddItemInput{ListID: listID, Text: "Bread"})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	items := s.ActiveList().Items
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != second || items[1].ID != first {
		t.Error("items not in newest-first order")
	}
}

func TestAddItem_Defaults(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID

	id, err := s.AddItem(AddItemInput{ListID: listID, Text: "Milk"})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	it, err := s.GetItem(listID, id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if it.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", it.Quantity)
	}
	if it.UnitValue != 0 || it.TotalValue != 0 {
		t.Errorf("values = %v/%v, want 0/0", it.UnitValue, it.TotalValue)
	}
	if it.Purchased {
		t.Error("new item should not be purchased")
	}
}

func TestAddItem_Validation(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID

	if _, err := s.AddItem(AddItemInput{ListID: listID, Text: "  "}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("blank text error = %v, want VALIDATION", err)
	}
	if _, err := s.AddItem(AddItemInput{ListID: listID, Text: "Milk", UnitValue: -1}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("negative unit value error = %v, want VALIDATION", err)
	}
	if _, err := s.AddItem(AddItemInput{ListID: "nope", Text: "Milk"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown list error = %v, want NOT_FOUND", err)
	}
}

func TestAddItem_MergesCaseInsensitiveText(t *testing.T) {
	s, _ := newStore(t)
	listID, _ := s.CreateList("Groceries")

	first, err := s.AddItem(AddItemInput{ListID: listID, Text: "milk"})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	merged, err := s.AddItem(AddItemInput{ListID: listID, Text: "Milk", Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if merged != first {
		t.Errorf("merged id = %q, want %q", merged, first)
	}
	it, _ := s.GetItem(listID, first)
	if it.Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", it.Quantity)
	}
	items := s.Lists()[1].Items
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1 (merged, not duplicated)", len(items))
	}
}

func TestAddItem_MergesByBarcodeDespiteDifferentText(t *testing.T) {
	s, _ := newStore(t)
	listID, _ := s.CreateList("Groceries")
	details := &list.ProductDetails{Barcode: "3017620422003"}

	first, err := s.AddItem(AddItemInput{ListID: listID, Text: "Nutella", Details: details})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	merged, err := s.AddItem(AddItemInput{
		ListID:  listID,
		Text:    "Hazelnut Spread",
		Details: &list.ProductDetails{Barcode: "3017620422003"},
	})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if merged != first {
		t.Errorf("merged id = %q, want %q", merged, first)
	}
	it, _ := s.GetItem(listID, first)
	if it.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", it.Quantity)
	}
	if it.Text != "Nutella" {
		t.Errorf("Text = %q, want existing item's text kept", it.Text)
	}
}

func TestAddItem_MergeAdoptsUnitValueOnlyFromZero(t *testing.T) {
	s, _ := newStore(t)
	listID, _ := s.CreateList("Groceries")

	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Milk"})

	// Existing value is 0: adopt the incoming positive value
	if _, err := s.AddItem(AddItemInput{ListID: listID, Text: "Milk", UnitValue: 0.99}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	it, _ := s.GetItem(listID, id)
	if it.UnitValue != 0.99 {
		t.Errorf("UnitValue = %v, want 0.99 adopted", it.UnitValue)
	}
	if it.TotalValue != 2*0.99 {
		t.Errorf("TotalValue = %v, want %v", it.TotalValue, 2*0.99)
	}

	// Existing value is set: keep it, ignore the new one
	if _, err := s.AddItem(AddItemInput{ListID: listID, Text: "Milk", UnitValue: 5}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	it, _ = s.GetItem(listID, id)
	if it.UnitValue != 0.99 {
		t.Errorf("UnitValue = %v, want 0.99 kept", it.UnitValue)
	}
	if it.TotalValue != 3*0.99 {
		t.Errorf("TotalValue = %v, want %v", it.TotalValue, 3*0.99)
	}
}

func TestAddItem_TasksListNeverMerges(t *testing.T) {
	s, _ := newStore(t)
	listID, _ := s.CreateList("Tarefas")
	details := &list.ProductDetails{Barcode: "3017620422003"}

	first, err := s.AddItem(AddItemInput{ListID: listID, Text: "Buy gift", Quantity: 4, UnitValue: 9.5, Details: details})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	second, err := s.AddItem(AddItemInput{ListID: listID, Text: "Buy gift", Quantity: 2, UnitValue: 3, Details: details})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if first == second {
		t.Error("tasks list merged duplicates")
	}
	items := s.Lists()[1].Items
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Quantity != 1 {
			t.Errorf("Quantity = %d, want 1 on a tasks list", it.Quantity)
		}
		if it.UnitValue != 0 || it.TotalValue != 0 {
			t.Errorf("values = %v/%v, want 0/0 on a tasks list", it.UnitValue, it.TotalValue)
		}
	}
}

func TestChangeQuantity_ClampsAtOne(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Milk", UnitValue: 2})

	if err := s.ChangeQuantity(listID, id, 3); err != nil {
		t.Fatalf("ChangeQuantity failed: %v", err)
	}
	it, _ := s.GetItem(listID, id)
	if it.Quantity != 4 || it.TotalValue != 8 {
		t.Errorf("item = %+v, want quantity 4 total 8", it)
	}

	// Repeated decrements never go below 1
	for i := 0; i < 10; i++ {
		if err := s.ChangeQuantity(listID, id, -2); err != nil {
			t.Fatalf("ChangeQuantity failed: %v", err)
		}
	}
	it, _ = s.GetItem(listID, id)
	if it.Quantity != 1 {
		t.Errorf("Quantity = %d, want clamped at 1", it.Quantity)
	}
	if it.TotalValue != 2 {
		t.Errorf("TotalValue = %v, want 2", it.TotalValue)
	}
}

func TestChangeQuantity_TasksListPinned(t *testing.T) {
	s, _ := newStore(t)
	listID, _ := s.CreateList("tasks")
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Call dentist"})

	if err := s.ChangeQuantity(listID, id, 5); err != nil {
		t.Fatalf("ChangeQuantity failed: %v", err)
	}
	it, _ := s.GetItem(listID, id)
	if it.Quantity != 1 {
		t.Errorf("Quantity = %d, want pinned at 1", it.Quantity)
	}
}

func TestSetPurchased(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Milk"})

	if err := s.SetPurchased(listID, id, true); err != nil {
		t.Fatalf("SetPurchased failed: %v", err)
	}
	it, _ := s.GetItem(listID, id)
	if !it.Purchased {
		t.Error("Purchased = false, want true")
	}

	if err := s.SetPurchased(listID, id, false); err != nil {
		t.Fatalf("SetPurchased failed: %v", err)
	}
	it, _ = s.GetItem(listID, id)
	if it.Purchased {
		t.Error("Purchased = true, want false")
	}
}

func TestRemoveItem_Idempotent(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Milk"})

	if err := s.RemoveItem(listID, id); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if err := s.RemoveItem(listID, id); err != nil {
		t.Errorf("second RemoveItem error = %v, want nil (idempotent)", err)
	}
	if len(s.ActiveList().Items) != 0 {
		t.Error("item not removed")
	}
}

func TestUpdateItem_RecomputesTotal(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Milk", Quantity: 3})

	if err := s.UpdateItem(UpdateItemInput{ListID: listID, ItemID: id, UnitValue: floatPtr(1.5)}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	it, _ := s.GetItem(listID, id)
	if it.UnitValue != 1.5 || it.TotalValue != 4.5 {
		t.Errorf("item = %+v, want unit 1.5 total 4.5", it)
	}
}

func TestUpdateItem_TasksListIgnoresValues(t *testing.T) {
	s, _ := newStore(t)
	listID, _ := s.CreateList("Tarefas")
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Call dentist"})

	if err := s.UpdateItem(UpdateItemInput{ListID: listID, ItemID: id, Text: stringPtr("Call the dentist"), UnitValue: floatPtr(9.99)}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	it, _ := s.GetItem(listID, id)
	if it.Text != "Call the dentist" {
		t.Errorf("Text = %q", it.Text)
	}
	if it.UnitValue != 0 || it.TotalValue != 0 {
		t.Errorf("values = %v/%v, want untouched 0/0", it.UnitValue, it.TotalValue)
	}
}

func TestUpdateItem_UpsertsBarcodeCache(t *testing.T) {
	s, gw := newStore(t)
	listID := s.ActiveList().ID
	id, _ := s.AddItem(AddItemInput{
		ListID:  listID,
		Text:    "Nutella",
		Details: &list.ProductDetails{Barcode: "3017620422003", Brand: "Ferrero"},
	})

	// No cache entry before the user finalizes an edit
	if _, ok := s.CachedProduct("3017620422003"); ok {
		t.Fatal("cache populated before any edit")
	}

	if err := s.UpdateItem(UpdateItemInput{
		ListID:    listID,
		ItemID:    id,
		Text:      stringPtr("Nutella 400g"),
		UnitValue: floatPtr(3.49),
	}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	entry, ok := s.CachedProduct("3017620422003")
	if !ok {
		t.Fatal("cache entry missing after edit")
	}
	if entry.DisplayName != "Nutella 400g" || entry.UnitValue != 3.49 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Details == nil || entry.Details.Brand != "Ferrero" {
		t.Errorf("entry details = %+v", entry.Details)
	}

	// The upsert is persisted
	s.Flush()
	persisted, err := gw.LoadCache()
	if err != nil {
		t.Fatalf("LoadCache failed: %v", err)
	}
	if _, ok := persisted["3017620422003"]; !ok {
		t.Error("cache entry not persisted")
	}
}

func TestUpdateItem_NoBarcodeNoCacheWrite(t *testing.T) {
	s, _ := newStore(t)
	listID := s.ActiveList().ID
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Milk"})

	if err := s.UpdateItem(UpdateItemInput{ListID: listID, ItemID: id, Text: stringPtr("Whole Milk")}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if _, ok := s.CachedProduct(""); ok {
		t.Error("cache should never hold an empty-barcode entry")
	}
}

func TestItemOps_ArchivedListRejected(t *testing.T) {
	s, _ := newStore(t)
	listID, _ := s.CreateList("Groceries")
	id, _ := s.AddItem(AddItemInput{ListID: listID, Text: "Milk"})
	if err := s.ArchiveList(listID); err != nil {
		t.Fatalf("ArchiveList failed: %v", err)
	}

	if _, err := s.AddItem(AddItemInput{ListID: listID, Text: "Bread"}); !errors.Is(err, errors.ErrState) {
		t.Errorf("AddItem on archived list error = %v, want STATE", err)
	}
	if err := s.ChangeQuantity(listID, id, 1); !errors.Is(err, errors.ErrState) {
		t.Errorf("ChangeQuantity on archived list error = %v, want STATE", err)
	}
	if err := s.SetPurchased(listID, id, true); !errors.Is(err, errors.ErrState) {
		t.Errorf("SetPurchased on archived list error = %v, want STATE", err)
	}
	if err := s.RemoveItem(listID, id); !errors.Is(err, errors.ErrState) {
		t.Errorf("RemoveItem on archived list error = %v, want STATE", err)
	}
	if err := s.UpdateItem(UpdateItemInput{ListID: listID, ItemID: id, Text: stringPtr("x")}); !errors.Is(err, errors.ErrState) {
		t.Errorf("UpdateItem on archived list error = %v, want STATE", err)
	}
}
