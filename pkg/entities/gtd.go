package entities

// GTD returns the task-management domain: tasks, projects, contexts and
// the relationships between them.
func GTD() Domain {
	priorities := []string{"A", "B", "C", "None"}
	energies := []string{"high", "medium", "low"}
	statuses := []string{"active", "someday", "completed", "stalled"}

	return Domain{
		Name: "gtd",
		EntityTypes: map[string]EntityType{
			"Task": {
				Name:        "Task",
				Description: "A task or next action",
				Fields: []Field{
					{Name: "description", Kind: KindString, Required: true, Description: "Clear description of the task"},
					{Name: "project", Kind: KindString, Description: "Associated project name"},
					{Name: "context", Kind: KindString, Description: "Context where task can be done (@home, @office, @computer, @phone)"},
					{Name: "priority", Kind: KindString, Enum: priorities, Description: "Priority level"},
					{Name: "energy_required", Kind: KindString, Enum: energies, Description: "Energy level required"},
					{Name: "time_estimate", Kind: KindInt, Description: "Estimated time in minutes"},
					{Name: "waiting_for", Kind: KindString, Description: "Person or event this is waiting on"},
					{Name: "delegated_to", Kind: KindString, Description: "Person this is delegated to"},
					{Name: "due_date", Kind: KindString, Description: "Due date if applicable (ISO format)"},
					{Name: "completed", Kind: KindBool, Description: "Whether the task is completed"},
				},
			},
			"Project": {
				Name:        "Project",
				Description: "A multi-step outcome with a next action",
				Fields: []Field{
					{Name: "project_name", Kind: KindString, Required: true, Description: "Project name"},
					{Name: "status", Kind: KindString, Enum: statuses, Description: "Current project status"},
					{Name: "area_of_focus", Kind: KindString, Description: "Related area of focus or responsibility"},
					{Name: "next_action", Kind: KindString, Description: "The very next physical action"},
					{Name: "outcome", Kind: KindString, Description: "Desired outcome or completion criteria"},
					{Name: "deadline", Kind: KindString, Description: "Project deadline if applicable (ISO format)"},
					{Name: "review_frequency", Kind: KindString, Description: "How often to review this project"},
					{Name: "notes", Kind: KindString, Description: "Additional project notes"},
				},
			},
			"Context": {
				Name:        "Context",
				Description: "A location, tool or person a task depends on",
				Fields: []Field{
					{Name: "context_name", Kind: KindString, Required: true, Description: "Context name (e.g. @home, @office, @computer)"},
					{Name: "available_time", Kind: KindInt, Description: "Available time in this context (minutes)"},
					{Name: "energy_level", Kind: KindString, Enum: energies, Description: "Current energy level in this context"},
					{Name: "tools_available", Kind: KindList, Description: "Tools and resources available"},
					{Name: "active", Kind: KindBool, Description: "Whether this context is currently available"},
					{Name: "location", Kind: KindString, Description: "Physical location if applicable"},
				},
			},
			"NextAction": {
				Name:        "NextAction",
				Description: "The next physical action for a project",
				Fields: []Field{
					{Name: "action", Kind: KindString, Required: true, Description: "Description of the next action"},
					{Name: "project_name", Kind: KindString, Required: true, Description: "Associated project"},
					{Name: "context_required", Kind: KindString, Description: "Context needed"},
					{Name: "estimated_minutes", Kind: KindInt, Description: "Time estimate"},
					{Name: "energy_required", Kind: KindString, Enum: energies, Description: "Energy needed"},
					{Name: "blocked", Kind: KindBool, Description: "Whether this action is blocked"},
					{Name: "blocking_reason", Kind: KindString, Description: "Reason if blocked"},
				},
			},
			"Review": {
				Name:        "Review",
				Description: "A periodic review session",
				Fields: []Field{
					{Name: "review_type", Kind: KindString, Enum: []string{"weekly", "monthly", "quarterly", "annual"}, Description: "Type of review"},
					{Name: "review_date", Kind: KindString, Required: true, Description: "Date of review (ISO format)"},
					{Name: "projects_reviewed", Kind: KindInt, Description: "Number of projects reviewed"},
					{Name: "tasks_created", Kind: KindInt, Description: "New tasks created"},
					{Name: "tasks_completed", Kind: KindInt, Description: "Tasks marked complete"},
					{Name: "duration_minutes", Kind: KindInt, Description: "Review duration"},
					{Name: "notes", Kind: KindString, Description: "Review notes and insights"},
				},
			},
			"AreaOfFocus": {
				Name:        "AreaOfFocus",
				Description: "An ongoing area of responsibility",
				Fields: []Field{
					{Name: "area_name", Kind: KindString, Required: true, Description: "Area name (e.g. Health, Finance, Career)"},
					{Name: "description", Kind: KindString, Description: "Description of this area"},
					{Name: "projects", Kind: KindList, Description: "Projects in this area"},
					{Name: "maintenance_tasks", Kind: KindList, Description: "Recurring maintenance tasks"},
					{Name: "review_frequency", Kind: KindString, Description: "How often to review this area"},
					{Name: "standards", Kind: KindList, Description: "Standards to maintain"},
				},
			},
			"InboxItem": {
				Name:        "InboxItem",
				Description: "A raw captured thought, task or idea",
				Fields: []Field{
					{Name: "content", Kind: KindString, Required: true, Description: "The raw captured content"},
					{Name: "capture_date", Kind: KindString, Required: true, Description: "When captured (ISO format)"},
					{Name: "source", Kind: KindString, Enum: []string{"mindsweep", "email", "phone", "meeting", "idea"}, Description: "Where this came from"},
					{Name: "processed", Kind: KindBool, Description: "Whether processed through the workflow"},
					{Name: "outcome", Kind: KindString, Enum: []string{"task", "project", "reference", "trash", "someday"}, Description: "Processing outcome"},
				},
			},
		},
		EdgeTypes: map[string]EdgeType{
			"BelongsTo": {
				Name:        "BelongsTo",
				Description: "Task or next action belongs to a project",
				Fields: []Field{
					{Name: "since", Kind: KindString, Description: "When the association started"},
				},
			},
			"RequiresContext": {
				Name:        "RequiresContext",
				Description: "Task requires a context to be actionable",
			},
			"BlockedBy": {
				Name:        "BlockedBy",
				Description: "Action blocked by another task or event",
				Fields: []Field{
					{Name: "reason", Kind: KindString, Description: "Why it is blocked"},
				},
			},
			"PartOf": {
				Name:        "PartOf",
				Description: "Project is part of an area of focus",
			},
			"ReviewedIn": {
				Name:        "ReviewedIn",
				Description: "Project or area reviewed in a review session",
			},
		},
		EdgeMap: map[string][]string{
			"Task-Project":        {"BelongsTo"},
			"NextAction-Project":  {"BelongsTo"},
			"Task-Context":        {"RequiresContext"},
			"NextAction-Context":  {"RequiresContext"},
			"Task-Task":           {"BlockedBy"},
			"Project-AreaOfFocus": {"PartOf"},
			"Project-Review":      {"ReviewedIn"},
			"AreaOfFocus-Review":  {"ReviewedIn"},
		},
	}
}
