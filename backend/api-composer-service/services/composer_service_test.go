package services

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"

	commenthandlers "taskboard/backend/comments-service/handlers"
	commentmodels "taskboard/backend/comments-service/models"
	commentrepos "taskboard/backend/comments-service/repositories"
	commentservices "taskboard/backend/comments-service/services"
	projecthandlers "taskboard/backend/projects-service/handlers"
	projectmodels "taskboard/backend/projects-service/models"
	projectrepos "taskboard/backend/projects-service/repositories"
	projectservices "taskboard/backend/projects-service/services"
	taskhandlers "taskboard/backend/tasks-service/handlers"
	taskmodels "taskboard/backend/tasks-service/models"
	taskrepos "taskboard/backend/tasks-service/repositories"
	taskservices "taskboard/backend/tasks-service/services"
	"taskboard/backend/utils"
)

var alice = utils.Identity{ID: "alice", Name: "Alice"}

type fixture struct {
	composer *ComposerService
	project  *projectmodels.Project
	tasks    []*taskmodels.Task
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	identity := utils.NewIdentityExtractor("")

	projects := projectservices.NewProjectService(projectrepos.NewMemoryProjectRepository())
	tasks := taskservices.NewTaskService(taskrepos.NewMemoryTaskRepository())
	comments := commentservices.NewCommentService(commentrepos.NewMemoryCommentRepository(), nil)

	project, _ := projects.CreateProject(ctx, alice, projectmodels.CreateProjectRequest{Name: "Apollo"})
	f := fixture{project: project}
	for _, p := range []taskmodels.TaskPriority{taskmodels.PriorityHigh, taskmodels.PriorityLow} {
		task, err := tasks.CreateTask(ctx, alice, taskmodels.CreateTaskRequest{
			Title: "Task " + string(p), Description: "d", DueDate: "2030-01-01",
			Priority: p, AssignedTo: taskmodels.Assignees{"alice"}, ProjectID: project.ID.Hex(),
		})
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		f.tasks = append(f.tasks, task)
	}
	comments.CreateComment(ctx, alice, commentmodels.CreateCommentRequest{Content: "first", TaskID: f.tasks[0].ID.Hex()})

	servers := []*httptest.Server{}
	for _, h := range []interface{ Register(*mux.Router) }{
		projecthandlers.NewProjectHandler(projects, identity),
		taskhandlers.NewTaskHandler(tasks, identity),
		commenthandlers.NewCommentHandler(comments, identity),
	} {
		r := mux.NewRouter()
		h.Register(r)
		srv := httptest.NewServer(r)
		t.Cleanup(srv.Close)
		servers = append(servers, srv)
	}

	f.composer = NewComposerService(utils.NewHTTPClient(time.Second), servers[0].URL, servers[1].URL, servers[2].URL)
	return f
}

func TestGetBoard(t *testing.T) {
	f := newFixture(t)

	board, err := f.composer.GetBoard(context.Background(), alice, f.project.ID.Hex(), url.Values{})
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if board.Project.ID != f.project.ID || len(board.Tasks) != 2 {
		t.Fatalf("board = %+v", board)
	}

	counts := map[string]int{}
	for _, bt := range board.Tasks {
		counts[bt.ID.Hex()] = len(bt.Comments)
	}
	if counts[f.tasks[0].ID.Hex()] != 1 || counts[f.tasks[1].ID.Hex()] != 0 {
		t.Errorf("comment counts = %v", counts)
	}
}

func TestGetBoardPassesTaskFilters(t *testing.T) {
	f := newFixture(t)

	board, err := f.composer.GetBoard(context.Background(), alice, f.project.ID.Hex(), url.Values{"priority": {"low"}})
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if len(board.Tasks) != 1 || board.Tasks[0].Priority != taskmodels.PriorityLow {
		t.Errorf("filtered tasks = %+v", board.Tasks)
	}

	if _, err := f.composer.GetBoard(context.Background(), alice, f.project.ID.Hex(), url.Values{"status": {"bogus"}}); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("bad filter: err = %v", err)
	}
}

func TestGetBoardUnknownProject(t *testing.T) {
	f := newFixture(t)

	_, err := f.composer.GetBoard(context.Background(), alice, "000000000000000000000000", nil)
	if !utils.IsKind(err, utils.KindNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}
