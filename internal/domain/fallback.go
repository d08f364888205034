package domain

// Defaults substituted when the optional content endpoints are unreachable.

// DefaultCategories is the last-resort category list.
var DefaultCategories = []string{"Core Concepts", "Networking", "Configuration"}

// DefaultUIConfig mirrors the server's ui-config document.
var DefaultUIConfig = UIConfig{
	CategoryColors: map[string]string{
		"Core Concepts": "bg-blue-100 text-blue-800",
		"Networking":    "bg-indigo-100 text-indigo-800",
		"Configuration": "bg-teal-100 text-teal-800",
		"Architecture":  "bg-purple-100 text-purple-800",
		"Workloads":     "bg-pink-100 text-pink-800",
		"Storage":       "bg-cyan-100 text-cyan-800",
		"Security":      "bg-red-100 text-red-800",
		"CLI":           "bg-lime-100 text-lime-800",
	},
	DifficultyColors: map[string]string{
		"Easy":   "bg-green-100 text-green-800",
		"Medium": "bg-yellow-100 text-yellow-800",
		"Hard":   "bg-red-100 text-red-800",
	},
	DefaultColor:       "bg-gray-100 text-gray-800",
	FallbackCategories: DefaultCategories,
}

// DefaultScenarioSet is the built-in interview: three phases plus two incident scenarios.
var DefaultScenarioSet = ScenarioSet{
	Phases: map[Phase]PhaseDefinition{
		PhasePersonal: {
			Title: "Getting to Know You",
			Icon:  "User",
			Color: "blue",
			Questions: []InterviewQuestion{
				{ID: 1, Question: "Tell me about yourself and your background in technology.", Type: "personal", TimeLimit: 180},
				{ID: 2, Question: "What got you interested in DevOps specifically?", Type: "personal", TimeLimit: 120},
				{ID: 3, Question: "Describe a challenging project you've worked on recently.", Type: "personal", TimeLimit: 180},
			},
		},
		PhaseTechnical: {
			Title: "Technical Knowledge",
			Icon:  "Code",
			Color: "green",
			Questions: []InterviewQuestion{
				{ID: 4, Question: "Explain the difference between Docker containers and virtual machines.", Type: "technical", TimeLimit: 300},
				{ID: 5, Question: "How would you implement a CI/CD pipeline for a microservices application?", Type: "technical", TimeLimit: 360},
				{ID: 6, Question: "What are the key components of Kubernetes architecture?", Type: "technical", TimeLimit: 300},
			},
		},
		PhaseScenario: {
			Title: "Problem Solving",
			Icon:  "AlertTriangle",
			Color: "red",
			Questions: []InterviewQuestion{
				{ID: 7, Question: "Your production system is experiencing high latency. Walk me through your troubleshooting process.", Type: "scenario", TimeLimit: 600},
				{ID: 8, Question: "How would you handle a critical security vulnerability discovered in production?", Type: "scenario", TimeLimit: 480},
			},
		},
	},
	Scenarios: []Scenario{
		{
			ID:          1,
			Title:       "Production Outage Response",
			Description: "Your e-commerce platform is experiencing a complete outage during Black Friday. Customer complaints are flooding in, and the CEO is asking for updates every 5 minutes.",
			Situation: "**URGENT: Production Down**\n\nTime: Black Friday, 2:30 PM EST\nImpact: 100% of users cannot access the website\nRevenue loss: $50,000 per minute\n\n" +
				"Initial symptoms:\n\n- Website returning 503 errors\n- Database connections timing out\n- Load balancer health checks failing\n- Customer support ticket volume increased 400%\n\n" +
				"**Your task:** Lead the incident response and restore service.",
			Type:      "incident-response",
			TimeLimit: 300,
			Hints: []string{
				"Start with the basics - check your monitoring dashboards",
				"Is this a code deployment issue or infrastructure?",
				"Don't forget to communicate with stakeholders",
			},
		},
		{
			ID:          2,
			Title:       "Scaling Crisis",
			Description: "Your application just got featured on TechCrunch and traffic has increased 50x overnight. The infrastructure is buckling under the load.",
			Situation: "**SCALING EMERGENCY**\n\nYour startup's new feature just went viral after a TechCrunch article.\n\n" +
				"Current symptoms:\n\n- Response times increased from 200ms to 5+ seconds\n- Database connection pool exhausted\n- CDN hit ratio dropped significantly\n- Auto-scaling isn't keeping up\n\n" +
				"**Your task:** Design a scaling strategy to handle this traffic surge.",
			Type:      "scenario",
			TimeLimit: 480,
			Hints: []string{
				"Consider horizontal and vertical scaling",
				"Think about database optimization",
				"What about caching strategies?",
			},
		},
	},
}

// DefaultHomepage is the landing page copy.
var DefaultHomepage = HomepageContent{
	Features: map[string][]Feature{
		"quiz": {
			{Icon: "Target", Text: "Practice by Category"},
			{Icon: "Code", Text: "Real K8s Questions"},
			{Icon: "Zap", Text: "Instant Feedback"},
		},
		"interview": {
			{Icon: "Users", Text: "Realistic Interview Flow"},
			{Icon: "Clock", Text: "Timed Questions"},
			{Icon: "Code", Text: "Debug Scenarios"},
		},
		"applications": {
			{Icon: "Target", Text: "Application Tracking"},
			{Icon: "TrendingUp", Text: "Progress Analytics"},
			{Icon: "Award", Text: "Status Management"},
		},
	},
	Stats: []Stat{
		{Value: "500+", Label: "Questions"},
		{Value: "15+", Label: "Scenarios"},
		{Value: "98%", Label: "Success Rate"},
	},
	Metadata: HomepageMetadata{
		Title:    "DevOps Interview Platform",
		Subtitle: "Master DevOps interviews with realistic simulations, Kubernetes practice, and comprehensive job application tracking. Land your dream DevOps role.",
	},
}
