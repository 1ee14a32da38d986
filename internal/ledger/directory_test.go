package ledger

import (
	"testing"

	"billetera/internal/core"
)

func TestDirectoryRecencyOrder(t *testing.T) {
	d := newDirectory()
	d.pushFront(core.Contact{ID: "a", Phone: "1"})
	d.pushFront(core.Contact{ID: "b", Phone: "2"})
	d.pushFront(core.Contact{ID: "c", Phone: " 3 "})

	d.touch("a")
	got := d.contacts()
	want := []string{"a", "c", "b"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s want %s (%+v)", i, got[i].ID, id, got)
		}
	}
	if d.byPhoneKey("3") == nil {
		t.Fatalf("phone should be indexed trimmed")
	}
}

func TestDirectoryRemoveAndRekey(t *testing.T) {
	d := newDirectory()
	d.pushFront(core.Contact{ID: "a", Phone: "1"})
	d.pushFront(core.Contact{ID: "b", Phone: "2"})

	d.rekey("a", "9")
	if d.byPhoneKey("1") != nil || d.byPhoneKey("9") == nil {
		t.Fatalf("rekey did not move the phone index")
	}
	if !d.remove("b") || d.remove("b") {
		t.Fatalf("remove should succeed once")
	}
	if d.len() != 1 || d.byPhoneKey("2") != nil || d.get("b") != nil {
		t.Fatalf("stale indexes after remove")
	}
}

func TestDirectoryResetKeepsSeedOrder(t *testing.T) {
	d := newDirectory()
	d.pushFront(core.Contact{ID: "x", Phone: "0"})
	d.reset([]core.Contact{{ID: "s1", Phone: "1"}, {ID: "s2", Phone: "2"}})
	got := d.contacts()
	if len(got) != 2 || got[0].ID != "s1" || got[1].ID != "s2" {
		t.Fatalf("unexpected contacts after reset: %+v", got)
	}
	if d.get("x") != nil {
		t.Fatalf("reset must drop previous entries")
	}
}
