package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestValueOfAndString(t *testing.T) {
	cases := []struct {
		raw  any
		kind ValueKind
		text string
	}{
		{raw: "Cloud", kind: KindText, text: "Cloud"},
		{raw: float64(10), kind: KindNumber, text: "10"},
		{raw: 1.5, kind: KindNumber, text: "1.5"},
		{raw: 7, kind: KindNumber, text: "7"},
		{raw: json.Number("12"), kind: KindNumber, text: "12"},
		{raw: true, kind: KindText, text: "true"},
		{raw: nil, kind: KindAbsent, text: ""},
		{raw: 1e21, kind: KindNumber, text: "1e+21"},
	}
	for _, tc := range cases {
		value := ValueOf(tc.raw)
		if value.Kind() != tc.kind {
			t.Fatalf("ValueOf(%#v) kind = %s, want %s", tc.raw, value.Kind(), tc.kind)
		}
		if value.String() != tc.text {
			t.Fatalf("ValueOf(%#v).String() = %q, want %q", tc.raw, value.String(), tc.text)
		}
	}
}

func TestValueJSON(t *testing.T) {
	record := Record{"Title": Text("Go"), "Rank": Number(3), "Note": Absent()}
	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"Note":null,"Rank":3,"Title":"Go"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	var decoded Record
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Lookup("Rank").IsNumber() {
		t.Fatalf("expected Rank to decode as number, got %s", decoded.Lookup("Rank").Kind())
	}
	if !decoded.Lookup("Note").IsAbsent() {
		t.Fatalf("expected Note to decode as absent")
	}
	if decoded.Has("Note") {
		t.Fatalf("absent values should not count as present")
	}

	var nested Value
	if err := json.Unmarshal([]byte(`{"a":1}`), &nested); err == nil {
		t.Fatalf("expected error decoding an object into a scalar value")
	}
}

func TestProjectedRecordJSONKeepsOrderAndDropsAbsent(t *testing.T) {
	source := Record{"Title": Text("Go Blog"), "Url": Text("https://go.dev/blog")}
	projected := NewProjectedRecord([]string{"Url", "Missing", "Title", "Url"}, source.Lookup)

	if got := projected.Fields(); len(got) != 3 || got[0] != "Url" || got[1] != "Missing" || got[2] != "Title" {
		t.Fatalf("unexpected fields %v", got)
	}
	payload, err := json.Marshal(projected)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"Url":"https://go.dev/blog","Title":"Go Blog"}` {
		t.Fatalf("unexpected payload %s", payload)
	}
}

func TestParseQueryParamsKeepsOrder(t *testing.T) {
	params, err := ParseQueryParams("?sort=Title,desc&Title=*e*&Category=Cloud&limit=5&offset=10&Title=*o*")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	entries := params.Entries()
	want := []Param{
		{Name: "sort", Value: "Title,desc"},
		{Name: "Title", Value: "*o*"},
		{Name: "Category", Value: "Cloud"},
		{Name: "limit", Value: "5"},
		{Name: "offset", Value: "10"},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestParseQueryParamsDecodes(t *testing.T) {
	params, err := ParseQueryParams("Title=My+Cloud%20Tools&field=&&=skipped")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value, _ := params.Get("Title"); value != "My Cloud Tools" {
		t.Fatalf("unexpected Title %q", value)
	}
	if !params.Has("field") {
		t.Fatalf("expected empty field parameter to be kept")
	}
	if params.Len() != 2 {
		t.Fatalf("expected 2 params, got %d", params.Len())
	}
	if _, err := ParseQueryParams("Title=%zz"); err == nil {
		t.Fatalf("expected error for bad escape")
	}

	without := params.Without("field")
	if without.Has("field") || !without.Has("Title") {
		t.Fatalf("unexpected params after Without: %v", without.Entries())
	}
}

func TestItemRecordSetsID(t *testing.T) {
	item := NewItem("bookmarks", map[string]any{"Title": "Go", "Id": "client-chosen", "Rank": 2.0})
	if _, ok := item.Properties[IDField]; ok {
		t.Fatalf("expected Id to be stripped from stored properties")
	}
	if item.ID == uuid.Nil {
		t.Fatalf("expected generated ID")
	}
	record := item.Record()
	if record.Lookup(IDField).String() != item.ID.String() {
		t.Fatalf("expected Id field %s, got %s", item.ID, record.Lookup(IDField).String())
	}
	if !record.Lookup("Rank").IsNumber() {
		t.Fatalf("expected numeric Rank")
	}
}
