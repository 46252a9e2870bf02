package repositories

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestVisibleToQuery(t *testing.T) {
	want := bson.M{"$or": []bson.M{{"ownerId": "alice"}, {"members": "alice"}}}
	if got := visibleToQuery("alice"); !reflect.DeepEqual(got, want) {
		t.Errorf("visibleToQuery = %#v, want %#v", got, want)
	}
}

func TestMembershipUpdate(t *testing.T) {
	now := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		op   string
		want bson.M
	}{
		{"$addToSet", bson.M{"$addToSet": bson.M{"members": "bob"}, "$set": bson.M{"updatedAt": now}}},
		{"$pull", bson.M{"$pull": bson.M{"members": "bob"}, "$set": bson.M{"updatedAt": now}}},
	}

	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			got := membershipUpdate(tc.op, "bob", now)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("membershipUpdate = %#v, want %#v", got, tc.want)
			}
		})
	}
}
