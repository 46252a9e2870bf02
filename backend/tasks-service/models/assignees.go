package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Assignees is the list of users a task is assigned to. Older documents and clients carry a
// single id string instead of a list; both forms decode to a list.
type Assignees []string

// NewAssignees trims ids and drops blanks and duplicates, keeping first-seen order.
func NewAssignees(ids ...string) Assignees {
	out := Assignees{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (a Assignees) Contains(id string) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

func (a Assignees) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func (a *Assignees) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = nil
		return nil
	}

	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*a = NewAssignees(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("assignedTo must be a user id or a list of user ids")
	}
	*a = NewAssignees(list...)
	return nil
}

func (a *Assignees) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Null, bsontype.Undefined:
		*a = nil
		return nil
	case bsontype.String:
		*a = NewAssignees(raw.StringValue())
		return nil
	case bsontype.Array:
		var list []string
		if err := raw.Unmarshal(&list); err != nil {
			return fmt.Errorf("decode assignedTo: %w", err)
		}
		*a = NewAssignees(list...)
		return nil
	}
	return fmt.Errorf("cannot decode assignedTo from BSON %s", t)
}
