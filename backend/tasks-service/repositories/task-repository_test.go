package repositories

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard/backend/tasks-service/models"
)

func TestTaskListQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter models.TaskFilter
		want   bson.M
	}{
		{
			name:   "project only",
			filter: models.TaskFilter{},
			want:   bson.M{"projectId": "p1"},
		},
		{
			name:   "status and priority",
			filter: models.TaskFilter{Status: models.StatusInProgress, Priority: models.PriorityHigh},
			want:   bson.M{"projectId": "p1", "status": models.StatusInProgress, "priority": models.PriorityHigh},
		},
		{
			// a plain equality matches a string field and any element of an array field
			name:   "assignee",
			filter: models.TaskFilter{AssignedTo: "bob"},
			want:   bson.M{"projectId": "p1", "assignedTo": "bob"},
		},
		{
			name:   "search is literal and case-insensitive",
			filter: models.TaskFilter{Search: "v1.2 (beta)*"},
			want: bson.M{
				"projectId": "p1",
				"$or": []bson.M{
					{"title": primitive.Regex{Pattern: `v1\.2 \(beta\)\*`, Options: "i"}},
					{"description": primitive.Regex{Pattern: `v1\.2 \(beta\)\*`, Options: "i"}},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := taskListQuery("p1", tc.filter)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("taskListQuery = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestTaskListQueryMarshals(t *testing.T) {
	query := taskListQuery("p1", models.TaskFilter{AssignedTo: "bob", Search: "docs"})
	if _, err := bson.Marshal(query); err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
}
