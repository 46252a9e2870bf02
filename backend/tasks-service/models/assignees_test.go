package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestAssigneesUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Assignees
	}{
		{"single id", `{"assignedTo":"u1"}`, Assignees{"u1"}},
		{"list", `{"assignedTo":["u1","u2"]}`, Assignees{"u1", "u2"}},
		{"duplicates and blanks", `{"assignedTo":["u1"," ","u1","u2"]}`, Assignees{"u1", "u2"}},
		{"empty string", `{"assignedTo":""}`, Assignees{}},
		{"null", `{"assignedTo":null}`, nil},
		{"absent", `{}`, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var v struct {
				AssignedTo Assignees `json:"assignedTo"`
			}
			if err := json.Unmarshal([]byte(tc.in), &v); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(v.AssignedTo, tc.want) {
				t.Errorf("got %#v, want %#v", v.AssignedTo, tc.want)
			}
		})
	}
}

func TestAssigneesUnmarshalJSONRejectsOtherTypes(t *testing.T) {
	var v struct {
		AssignedTo Assignees `json:"assignedTo"`
	}
	if err := json.Unmarshal([]byte(`{"assignedTo":42}`), &v); err == nil {
		t.Error("expected error for numeric assignedTo")
	}
}

func TestAssigneesMarshalJSONNeverNull(t *testing.T) {
	out, err := json.Marshal(struct {
		AssignedTo Assignees `json:"assignedTo"`
	}{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"assignedTo":[]}` {
		t.Errorf("got %s", out)
	}
}

func TestAssigneesDecodeBSON(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.M
		want Assignees
	}{
		{"legacy string", bson.M{"assignedTo": "u1"}, Assignees{"u1"}},
		{"array", bson.M{"assignedTo": bson.A{"u1", "u2"}}, Assignees{"u1", "u2"}},
		{"array with duplicate", bson.M{"assignedTo": bson.A{"u2", "u2"}}, Assignees{"u2"}},
		{"null", bson.M{"assignedTo": nil}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(tc.doc)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var task Task
			if err := bson.Unmarshal(raw, &task); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(task.AssignedTo, tc.want) {
				t.Errorf("got %#v, want %#v", task.AssignedTo, tc.want)
			}
		})
	}
}

func TestAssigneesStoredAsArray(t *testing.T) {
	raw, err := bson.Marshal(Task{AssignedTo: Assignees{"u1"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	val := bson.Raw(raw).Lookup("assignedTo")
	if _, ok := val.ArrayOK(); !ok {
		t.Errorf("assignedTo stored as %s, want array", val.Type)
	}
}

func TestCanEdit(t *testing.T) {
	task := Task{CreatedBy: "alice", AssignedTo: Assignees{"bob"}}
	for id, want := range map[string]bool{"alice": true, "bob": true, "carol": false} {
		if got := task.CanEdit(id); got != want {
			t.Errorf("CanEdit(%q) = %v, want %v", id, got, want)
		}
	}
}
