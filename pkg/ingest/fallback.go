package ingest

import (
	"github.com/rs/zerolog"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// FallbackSpecs is the fixed ten-task week used whenever extraction is unavailable
func FallbackSpecs() []models.TaskSpec {
	return []models.TaskSpec{
		{Name: "Morning Meeting", Description: "Team standup meeting", DurationMinutes: 30,
			IdealStart: "08:00", IdealEnd: "09:00", Days: []string{"Monday"}},
		{Name: "Documentation", Description: "Update project documentation", DurationMinutes: 60,
			IdealStart: "09:00", IdealEnd: "10:00", Days: []string{"Tuesday"}, DependsOn: []string{"Morning Meeting"}},
		{Name: "Code Review", Description: "Review pull requests", DurationMinutes: 90,
			IdealStart: "10:00", IdealEnd: "11:00", Days: []string{"Wednesday"}},
		{Name: "Design Meeting", Description: "Discuss UI/UX design", DurationMinutes: 60,
			IdealStart: "08:00", IdealEnd: "09:00", Days: []string{"Thursday"}, DependsOn: []string{"Morning Meeting"}},
		{Name: "Backend Implementation", Description: "Implement API endpoints", DurationMinutes: 120,
			IdealStart: "14:00", IdealEnd: "15:00", Days: []string{"Friday"}, DependsOn: []string{"Documentation"}},
		{Name: "Frontend Implementation", Description: "Implement UI screens", DurationMinutes: 120,
			IdealStart: "14:00", IdealEnd: "15:00", Days: []string{"Monday"}, DependsOn: []string{"Documentation"}},
		{Name: "Unit Testing", Description: "Write unit tests", DurationMinutes: 60,
			IdealStart: "16:00", IdealEnd: "17:00", Days: []string{"Tuesday"},
			DependsOn: []string{"Backend Implementation", "Frontend Implementation"}},
		{Name: "Integration Testing", Description: "Integration tests for API and frontend", DurationMinutes: 90,
			IdealStart: "15:00", IdealEnd: "16:00", Days: []string{"Wednesday"}, DependsOn: []string{"Unit Testing"}},
		{Name: "Deployment to Staging", Description: "Deploy application to staging environment", DurationMinutes: 60,
			IdealStart: "15:00", IdealEnd: "16:00", Days: []string{"Thursday"}, DependsOn: []string{"Integration Testing"}},
		{Name: "Client Demo", Description: "Demo to client", DurationMinutes: 60,
			IdealStart: "16:00", IdealEnd: "17:00", Days: []string{"Friday"}, DependsOn: []string{"Deployment to Staging"}},
	}
}

// FallbackTasks builds FallbackSpecs
func FallbackTasks() map[string]*models.Task {
	tasks, err := BuildTasks(FallbackSpecs(), zerolog.Nop())
	if err != nil {
		// The fixed specs always build.
		panic(err)
	}
	return tasks
}
