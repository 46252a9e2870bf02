package services

import (
	"context"
	"strings"

	"taskboard/backend/logging"
	"taskboard/backend/projects-service/models"
	"taskboard/backend/projects-service/repositories"
	"taskboard/backend/utils"
)

type ProjectService struct {
	projects repositories.ProjectRepository
}

func NewProjectService(projects repositories.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// CreateProject makes caller the owner and only member of a new project.
func (s *ProjectService) CreateProject(ctx context.Context, caller utils.Identity, req models.CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewValidation("Project name is required")
	}

	project := &models.Project{
		Name:        name,
		Description: req.Description,
		OwnerID:     caller.ID,
		Members:     []string{caller.ID},
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by %s", project.ID.Hex(), caller.ID)
	return project, nil
}

// ListProjects returns the projects caller owns or is a member of, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, caller utils.Identity) ([]*models.Project, error) {
	return s.projects.ListForUser(ctx, caller.ID)
}

func (s *ProjectService) GetProject(ctx context.Context, _ utils.Identity, id string) (*models.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) UpdateProject(ctx context.Context, caller utils.Identity, id string, req models.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.ownedProject(ctx, caller, id, "Only project owner can update")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utils.NewValidation("Project name cannot be empty")
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Members != nil {
		project.Members = normalizeMembers(project.OwnerID, req.Members)
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, caller utils.Identity, id string) (*models.Project, error) {
	project, err := s.ownedProject(ctx, caller, id, "Only project owner can delete")
	if err != nil {
		return nil, err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted by %s", id, caller.ID)
	return project, nil
}

// AddMember is idempotent: a member already present is not added twice.
func (s *ProjectService) AddMember(ctx context.Context, caller utils.Identity, id, memberID string) (*models.Project, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, utils.NewValidation("memberId is required")
	}

	project, err := s.ownedProject(ctx, caller, id, "Only project owner can add members")
	if err != nil {
		return nil, err
	}
	if project.HasMember(memberID) {
		return project, nil
	}
	return s.projects.AddMember(ctx, id, memberID)
}

// RemoveMember drops memberID from the project. The owner cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, caller utils.Identity, id, memberID string) (*models.Project, error) {
	project, err := s.ownedProject(ctx, caller, id, "Only project owner can remove members")
	if err != nil {
		return nil, err
	}
	if memberID == project.OwnerID {
		return nil, utils.NewValidation("Project owner cannot be removed")
	}
	if !project.HasMember(memberID) {
		return nil, utils.NewNotFound("Member not found in project")
	}

	project, err = s.projects.RemoveMember(ctx, id, memberID)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_MEMBER_REMOVED, Description: %s removed from project %s by %s", memberID, id, caller.ID)
	return project, nil
}

func (s *ProjectService) ownedProject(ctx context.Context, caller utils.Identity, id, denied string) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != caller.ID {
		logging.Logger.Warnf("Event ID: PROJECT_FORBIDDEN, Description: User %s denied on project %s", caller.ID, id)
		return nil, utils.NewForbidden(denied)
	}
	return project, nil
}

// normalizeMembers drops blanks and duplicates and keeps the owner in the list.
func normalizeMembers(ownerID string, members []string) []string {
	seen := map[string]bool{ownerID: true}
	out := []string{ownerID}
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
