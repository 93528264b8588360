package entities

// Arabic returns the language-tutoring domain: students, lessons,
// vocabulary and grammar, with study/mastery relationships.
func Arabic() Domain {
	levels := []string{"beginner", "elementary", "intermediate", "advanced", "fluent"}
	skills := []string{"reading", "writing", "speaking", "listening", "grammar", "vocabulary"}

	return Domain{
		Name: "arabic",
		EntityTypes: map[string]EntityType{
			"Student": {
				Name:        "Student",
				Description: "An Arabic language student",
				Fields: []Field{
					{Name: "student_name", Kind: KindString, Required: true, Description: "Student's name"},
					{Name: "proficiency_level", Kind: KindString, Enum: levels, Description: "Current proficiency level"},
					{Name: "native_language", Kind: KindString, Description: "Student's native language"},
					{Name: "learning_goals", Kind: KindList, Description: "Student's learning goals"},
					{Name: "weekly_study_hours", Kind: KindFloat, Description: "Target weekly study hours"},
					{Name: "preferred_learning_style", Kind: KindString, Description: "Visual, auditory, kinesthetic, or reading/writing"},
					{Name: "start_date", Kind: KindString, Description: "When the student started learning (ISO format)"},
				},
			},
			"Lesson": {
				Name:        "Lesson",
				Description: "A lesson or study session",
				Fields: []Field{
					{Name: "title", Kind: KindString, Required: true, Description: "Lesson title"},
					{Name: "skill_focus", Kind: KindString, Required: true, Enum: skills, Description: "Primary skill being taught"},
					{Name: "level", Kind: KindString, Required: true, Enum: levels, Description: "Target proficiency level"},
					{Name: "duration_minutes", Kind: KindInt, Description: "Lesson duration in minutes"},
					{Name: "topics", Kind: KindList, Description: "Topics covered in the lesson"},
					{Name: "materials_used", Kind: KindList, Description: "Learning materials used"},
					{Name: "homework_assigned", Kind: KindString, Description: "Homework or practice assigned"},
					{Name: "completion_date", Kind: KindString, Description: "When the lesson was completed (ISO format)"},
				},
			},
			"VocabularyWord": {
				Name:        "VocabularyWord",
				Description: "An Arabic vocabulary word",
				Fields: []Field{
					{Name: "arabic_word", Kind: KindString, Required: true, Description: "The word in Arabic script"},
					{Name: "transliteration", Kind: KindString, Required: true, Description: "Romanized transliteration"},
					{Name: "english_meaning", Kind: KindString, Required: true, Description: "English translation"},
					{Name: "part_of_speech", Kind: KindString, Required: true, Enum: []string{"noun", "verb", "adjective", "adverb", "preposition", "pronoun", "conjunction"}, Description: "Grammatical category"},
					{Name: "root", Kind: KindString, Description: "Three-letter root"},
					{Name: "pattern", Kind: KindString, Description: "Morphological pattern (wazn)"},
					{Name: "usage_examples", Kind: KindList, Description: "Example sentences"},
					{Name: "difficulty_level", Kind: KindString, Enum: levels, Description: "Word difficulty level"},
					{Name: "memorization_status", Kind: KindString, Enum: []string{"new", "learning", "review", "mastered"}, Description: "Learning status"},
					{Name: "last_reviewed", Kind: KindString, Description: "Last review date (ISO format)"},
				},
			},
			"GrammarRule": {
				Name:        "GrammarRule",
				Description: "A grammar rule or concept",
				Fields: []Field{
					{Name: "rule_name", Kind: KindString, Required: true, Description: "Name of the grammar rule"},
					{Name: "category", Kind: KindString, Required: true, Enum: []string{"morphology", "syntax", "phonology", "semantics"}, Description: "Grammar category"},
					{Name: "description", Kind: KindString, Required: true, Description: "Explanation of the rule"},
					{Name: "level", Kind: KindString, Required: true, Enum: levels, Description: "Difficulty level"},
					{Name: "examples", Kind: KindList, Description: "Example applications"},
					{Name: "exceptions", Kind: KindList, Description: "Notable exceptions to the rule"},
					{Name: "related_rules", Kind: KindList, Description: "Related grammar concepts"},
					{Name: "mastery_level", Kind: KindFloat, Description: "Student's mastery level (0-1)"},
				},
			},
			"Progress": {
				Name:        "Progress",
				Description: "Learning progress and milestones",
				Fields: []Field{
					{Name: "student_name", Kind: KindString, Required: true, Description: "Student being tracked"},
					{Name: "skill_type", Kind: KindString, Required: true, Enum: skills, Description: "Skill being measured"},
					{Name: "current_level", Kind: KindString, Required: true, Enum: levels, Description: "Current proficiency level"},
					{Name: "target_level", Kind: KindString, Required: true, Enum: levels, Description: "Target proficiency level"},
					{Name: "progress_percentage", Kind: KindFloat, Description: "Progress towards target (0-100)"},
					{Name: "milestones_completed", Kind: KindList, Description: "Completed milestones"},
					{Name: "next_milestone", Kind: KindString, Description: "Next milestone to achieve"},
					{Name: "assessment_date", Kind: KindString, Required: true, Description: "Date of progress assessment (ISO format)"},
				},
			},
			"PracticeSession": {
				Name:        "PracticeSession",
				Description: "A practice or study session",
				Fields: []Field{
					{Name: "session_type", Kind: KindString, Required: true, Enum: []string{"vocabulary", "grammar", "conversation", "reading", "writing", "listening"}, Description: "Type of practice"},
					{Name: "duration_minutes", Kind: KindInt, Required: true, Description: "Session duration"},
					{Name: "exercises_completed", Kind: KindInt, Description: "Number of exercises completed"},
					{Name: "accuracy_rate", Kind: KindFloat, Description: "Accuracy percentage (0-100)"},
					{Name: "words_practiced", Kind: KindList, Description: "Vocabulary words practiced"},
					{Name: "grammar_points", Kind: KindList, Description: "Grammar points covered"},
					{Name: "errors_made", Kind: KindList, Description: "Common errors to review"},
					{Name: "session_date", Kind: KindString, Required: true, Description: "Session date (ISO format)"},
				},
			},
		},
		EdgeTypes: map[string]EdgeType{
			"Studies": {
				Name:        "Studies",
				Description: "Student studies a lesson or topic",
				Fields: []Field{
					{Name: "started_date", Kind: KindString, Required: true, Description: "When study began (ISO format)"},
					{Name: "completion_status", Kind: KindString, Enum: []string{"not_started", "in_progress", "completed", "reviewed"}, Description: "Current status"},
					{Name: "completion_percentage", Kind: KindFloat, Description: "Completion percentage (0-100)"},
					{Name: "difficulty_rating", Kind: KindInt, Description: "Student's difficulty rating (1-5)"},
				},
			},
			"CompletedLesson": {
				Name:        "CompletedLesson",
				Description: "Student completed a lesson",
				Fields: []Field{
					{Name: "completion_date", Kind: KindString, Required: true, Description: "Completion date (ISO format)"},
					{Name: "score", Kind: KindFloat, Description: "Lesson score (0-100)"},
					{Name: "time_spent_minutes", Kind: KindInt, Required: true, Description: "Time spent on lesson"},
					{Name: "review_needed", Kind: KindBool, Description: "Whether review is recommended"},
				},
			},
			"Mastered": {
				Name:        "Mastered",
				Description: "Student mastered a word or rule",
				Fields: []Field{
					{Name: "mastery_date", Kind: KindString, Required: true, Description: "Date of mastery (ISO format)"},
					{Name: "retention_score", Kind: KindFloat, Description: "Retention score (0-1)"},
					{Name: "review_count", Kind: KindInt, Description: "Number of times reviewed"},
					{Name: "confidence_level", Kind: KindFloat, Description: "Confidence in mastery (0-1)"},
				},
			},
			"UsesInLesson": {
				Name:        "UsesInLesson",
				Description: "Lesson uses vocabulary or grammar",
				Fields: []Field{
					{Name: "emphasis_level", Kind: KindString, Enum: []string{"primary", "secondary", "mentioned"}, Description: "How prominently featured"},
					{Name: "practice_exercises", Kind: KindInt, Description: "Number of practice exercises"},
					{Name: "introduced_as_new", Kind: KindBool, Description: "Whether introduced as new material"},
				},
			},
			"RequiresGrammar": {
				Name:        "RequiresGrammar",
				Description: "Vocabulary or concept requires grammar understanding",
				Fields: []Field{
					{Name: "prerequisite", Kind: KindBool, Description: "Whether grammar is prerequisite"},
					{Name: "importance_level", Kind: KindString, Enum: []string{"essential", "helpful", "optional"}, Description: "Importance of the grammar"},
				},
			},
		},
		EdgeMap: map[string][]string{
			"Student-Lesson":             {"Studies", "CompletedLesson"},
			"Student-VocabularyWord":     {"Mastered"},
			"Student-GrammarRule":        {"Mastered"},
			"Lesson-VocabularyWord":      {"UsesInLesson"},
			"Lesson-GrammarRule":         {"UsesInLesson"},
			"VocabularyWord-GrammarRule": {"RequiresGrammar"},
		},
	}
}
