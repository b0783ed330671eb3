// Package seed loads a small sample dataset: five users, two projects, two
// sprints and six stories. Everything after the users goes through the
// services, so numbering and permission rules apply to the sample data too.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tracker/internal/auth"
	"tracker/internal/model"
	"tracker/internal/repository"
	"tracker/internal/service"
)

// Result summarises what Run created.
type Result struct {
	Skipped  bool
	Users    int
	Projects int
	Sprints  int
	Stories  int
}

type sampleUser struct {
	username, email, fullName, password string
	role                                model.Role
}

var sampleUsers = []sampleUser{
	{"admin", "admin@projectmanagement.com", "Admin User", "admin123", model.RoleAdmin},
	{"shantnu", "shantnu@projectmanagement.com", "Shantnu Sharma", "password123", model.RoleTeamLead},
	{"pranav", "pranav@projectmanagement.com", "Pranav Kumar", "password123", model.RoleTeamLead},
	{"abhishek", "abhishek@projectmanagement.com", "Abhishek Singh", "password123", model.RoleUser},
	{"tanay", "tanay@projectmanagement.com", "Tanay Patel", "password123", model.RoleUser},
}

// Seeder writes the sample dataset.
type Seeder struct {
	store    *repository.Store
	projects service.ProjectService
	sprints  service.SprintService
	stories  service.StoryService
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Seeder over store.
func New(store *repository.Store, projects service.ProjectService, sprints service.SprintService, stories service.StoryService, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		store:    store,
		projects: projects,
		sprints:  sprints,
		stories:  stories,
		logger:   logger,
		now:      time.Now,
	}
}

// Run seeds an empty database. It does nothing when any user exists.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	count, err := s.store.Repos().Users.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		s.logger.Info("sample data already exists, skipping")
		res.Skipped = true
		return res, nil
	}

	users := make(map[string]*model.User, len(sampleUsers))
	for _, su := range sampleUsers {
		hash, err := auth.HashPassword(su.password)
		if err != nil {
			return res, fmt.Errorf("hash password for %s: %w", su.username, err)
		}
		u := &model.User{
			Username:     su.username,
			Email:        su.email,
			FullName:     su.fullName,
			Role:         su.role,
			PasswordHash: hash,
		}
		if err := s.store.Repos().Users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create user %s: %w", su.username, err)
		}
		users[su.username] = u
		res.Users++
	}

	as := func(username string) *auth.Principal {
		u := users[username]
		return &auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
	}
	admin := as("admin")

	td, err := s.projects.Create(ctx, admin, service.CreateProjectInput{
		Name:        "Training & Development",
		Prefix:      "T&D",
		Description: ptr("Training and development management system"),
		TeamLeadID:  &users["shantnu"].ID,
	})
	if err != nil {
		return res, fmt.Errorf("create project T&D: %w", err)
	}
	adms, err := s.projects.Create(ctx, admin, service.CreateProjectInput{
		Name:        "Asset Management System",
		Prefix:      "ADMS",
		Description: ptr("Asset and document management system"),
		TeamLeadID:  &users["pranav"].ID,
	})
	if err != nil {
		return res, fmt.Errorf("create project ADMS: %w", err)
	}
	res.Projects = 2

	now := s.now()
	day := 24 * time.Hour
	tdSprint, err := s.sprints.Create(ctx, as("shantnu"), service.CreateSprintInput{
		Name:      "Sprint 1 - Q4 2024",
		Goal:      ptr("Complete user authentication and basic CRUD operations"),
		Status:    model.SprintStatusActive,
		ProjectID: td.ID,
		StartDate: now.Add(-7 * day),
		EndDate:   now.Add(7 * day),
	})
	if err != nil {
		return res, fmt.Errorf("create sprint for T&D: %w", err)
	}
	admsSprint, err := s.sprints.Create(ctx, as("pranav"), service.CreateSprintInput{
		Name:      "Sprint 1 - Asset Module",
		Goal:      ptr("Implement asset tracking and management features"),
		Status:    model.SprintStatusPlanning,
		ProjectID: adms.ID,
		StartDate: now.Add(day),
		EndDate:   now.Add(14 * day),
	})
	if err != nil {
		return res, fmt.Errorf("create sprint for ADMS: %w", err)
	}
	res.Sprints = 2

	dueSoon := now.Add(10 * day)
	stories := []struct {
		author string
		in     service.CreateStoryInput
	}{
		{"shantnu", service.CreateStoryInput{
			Title:              "User Authentication System",
			Description:        ptr("Implement secure user login and registration with JWT tokens"),
			AcceptanceCriteria: ptr("- Users can register with email and password\n- Users can login securely\n- JWT tokens are generated and validated"),
			StoryPoints:        ptr(8),
			Status:             model.StoryStatusCompleted,
			Priority:           model.StoryPriorityHigh,
			ProjectID:          td.ID,
			AssigneeID:         &users["abhishek"].ID,
			SprintID:           &tdSprint.ID,
		}},
		{"shantnu", service.CreateStoryInput{
			Title:              "Project Management Dashboard",
			Description:        ptr("Create a dashboard to view project metrics and KPIs"),
			AcceptanceCriteria: ptr("- Display project progress\n- Show team performance metrics\n- Interactive charts and graphs"),
			StoryPoints:        ptr(13),
			Status:             model.StoryStatusInProgress,
			Priority:           model.StoryPriorityHigh,
			ProjectID:          td.ID,
			AssigneeID:         &users["tanay"].ID,
			SprintID:           &tdSprint.ID,
		}},
		{"shantnu", service.CreateStoryInput{
			Title:              "Kanban Board Implementation",
			Description:        ptr("Develop drag-and-drop Kanban board for story management"),
			AcceptanceCriteria: ptr("- Stories can be dragged between columns\n- Real-time updates\n- Status changes automatically"),
			StoryPoints:        ptr(21),
			Status:             model.StoryStatusToDo,
			Priority:           model.StoryPriorityMedium,
			ProjectID:          td.ID,
			AssigneeID:         &users["abhishek"].ID,
			SprintID:           &tdSprint.ID,
			DueDate:            &dueSoon,
		}},
		{"pranav", service.CreateStoryInput{
			Title:              "Asset Registration Module",
			Description:        ptr("Allow users to register and track physical assets"),
			AcceptanceCriteria: ptr("- Asset details form\n- Asset categorization\n- Barcode generation"),
			StoryPoints:        ptr(8),
			Priority:           model.StoryPriorityHigh,
			ProjectID:          adms.ID,
			SprintID:           &admsSprint.ID,
		}},
		{"pranav", service.CreateStoryInput{
			Title:              "Asset Search and Filter",
			Description:        ptr("Implement search functionality for assets with advanced filters"),
			AcceptanceCriteria: ptr("- Text-based search\n- Filter by category, status, location\n- Export search results"),
			StoryPoints:        ptr(5),
			ProjectID:          adms.ID,
			SprintID:           &admsSprint.ID,
		}},
		{"abhishek", service.CreateStoryInput{
			Title:              "Bug: Login page crashes on mobile",
			Description:        ptr("Login page becomes unresponsive on mobile devices"),
			AcceptanceCriteria: ptr("- Login works on all mobile devices\n- Responsive design implemented\n- No JavaScript errors"),
			StoryPoints:        ptr(3),
			Status:             model.StoryStatusBlocked,
			Priority:           model.StoryPriorityHigh,
			StoryType:          model.StoryTypeBug,
			ProjectID:          td.ID,
			AssigneeID:         &users["tanay"].ID,
		}},
	}
	for _, st := range stories {
		created, err := s.stories.Create(ctx, as(st.author), st.in)
		if err != nil {
			return res, fmt.Errorf("create story %q: %w", st.in.Title, err)
		}
		s.logger.Debug("seeded story", slog.String("story_number", created.StoryNumber))
		res.Stories++
	}

	return res, nil
}

// Credentials lists the sample logins for display.
func Credentials() []string {
	out := make([]string, 0, len(sampleUsers))
	for _, su := range sampleUsers {
		out = append(out, fmt.Sprintf("%s: %s / %s", su.role, su.username, su.password))
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
