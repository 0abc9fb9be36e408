package model

import (
	"encoding/json"
	"testing"

	"github.com/volatiletech/null/v8"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"current", FilterCurrent},
		{"deleted", FilterDeleted},
		{"", FilterAll},
		{"all", FilterAll},
		{"CURRENT", FilterAll},
		{"bogus", FilterAll},
	}

	for _, tt := range tests {
		if got := ParseFilter(tt.in); got != tt.want {
			t.Errorf("ParseFilter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestImageOrDefault(t *testing.T) {
	if got := ImageOrDefault(""); got != DefaultImage {
		t.Errorf("expected default image, got %q", got)
	}
	if got := ImageOrDefault("fakeImage"); got != "fakeImage" {
		t.Errorf("expected fakeImage, got %q", got)
	}
}

func TestItemPatchEmpty(t *testing.T) {
	if !(ItemPatch{}).Empty() {
		t.Error("expected zero patch to be empty")
	}
	name := "Spoon"
	if (ItemPatch{Name: &name}).Empty() {
		t.Error("expected patch with name to be non-empty")
	}
}

func TestItemJSONShape(t *testing.T) {
	item := Item{ID: 1, Name: "Expensive cookies", Price: 140213, Image: "fakeImage"}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"name":"Expensive cookies","price":140213,"image":"fakeImage","deleted":false,"msg":null}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	item.Deleted = true
	item.Msg = null.StringFrom("Bye")
	data, _ = json.Marshal(item)
	want = `{"id":1,"name":"Expensive cookies","price":140213,"image":"fakeImage","deleted":true,"msg":"Bye"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
