package config

// DefaultConfig returns the single versioned source of truth for every
// weight, threshold, and lookup table in the pipeline. Load applies file
// and environment overrides on top of it.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Normalize: NormalizeConfig{
			NormalizeNames:       true,
			NormalizeCompanies:   true,
			NormalizeLocations:   true,
			NormalizeEmails:      true,
			NormalizeURLs:        true,
			NormalizeBio:         true,
			StandardizeLanguages: true,
			LowercaseEmails:      true,
			StandardizeProtocols: true,
			MaxBioLength:         500,
			MaxNameLength:        100,
			MaxCompanyLength:     100,
		},
		Compliance: ComplianceConfig{
			GeoBlock: []string{
				"north korea", "dprk", "pyongyang",
				"iran", "tehran",
				"syria", "damascus",
				"cuba", "havana",
				"crimea", "sevastopol",
			},
			SanctionedNames:   nil,
			SanctionedDomains: nil,
			BlockedEmailDomains: []string{
				"example.com", "test.com", "localhost",
			},
			BlockedCompanies: nil,
			ProhibitedBioTerms: []string{
				"cracking", "carding", "botnet", "ransomware",
			},
			ProhibitedRepoTerms: []string{
				"exploit-kit", "credential-stealer",
			},
		},
		Relevance: RelevanceConfig{
			RelevanceThreshold: 0.6,
			CompanySizes:       []string{"seed", "series-a", "growth"},
			TechStacks:         []string{"python-ml", "go-backend", "typescript-web"},
			PreferredLocations: nil,
			BlockedLocations:   nil,
		},
		Activity: ActivityConfig{
			ActivityDaysThreshold:   90,
			MinActivityScore:        0.6,
			RequireMaintainerStatus: false,
			MinFollowers:            10,
			MinRepos:                5,
		},
		Scoring: ScoringConfig{
			// Positive weights sum to 100.
			Weights: ScoringWeights{
				Maintainer:     20,
				CodeOwner:      5,
				AdminPerm:      5,
				OrgMember:      10,
				Contactability: 25,
				ICPMatch:       20,
				Activity:       15,
			},
			TierThresholds: TierThresholds{A: 70, B: 55, C: 40},
			AcademicDomains: []string{
				".edu", ".ac.uk", ".ac.jp", ".edu.au", ".uni-muenchen.de",
			},
			AcademicKeywords: []string{
				"phd", "professor", "postdoc", "research assistant",
				"university", "grad student", "phd student",
			},
			CompanyWhitelist: nil,
			ExcludeTopics: []string{
				"homework", "tutorial", "learning", "course", "bootcamp",
			},
		},
		Gates: GateConfig{
			EmailRequired:             true,
			EmailDeliverable:          true,
			DataCompletenessThreshold: 0.6,
			DataAccuracyThreshold:     0.7,
			DataConsistencyThreshold:  0.5,
			ICPRelevanceThreshold:     0.6,
			ActivityRecentThreshold:   90,
			ComplianceRequired:        true,
			PersonalizationReady:      true,
			BlockedEmailDomains:       []string{"example.com", "test.com"},
			UndeliverableDomains:      []string{"noreply.github.com"},
		},
		Pipeline: PipelineConfig{
			ValidationEnabled:        true,
			DeduplicationEnabled:     true,
			ComplianceEnabled:        true,
			ICPFilteringEnabled:      true,
			ActivityFilteringEnabled: true,
			NormalizationEnabled:     true,
			QualityGatesEnabled:      true,
			BlockHighRisk:            false,
			EnableParallel:           true,
			MaxWorkers:               4,
			BatchSize:                50,
		},
		Server: ServerConfig{
			Port:          8080,
			RatePerSecond: 2,
			RateBurst:     5,
			MaxBatch:      5000,
		},
		Tables: defaultTables(),
	}
}

func defaultTables() TableConfig {
	return TableConfig{
		PublicEmailDomains: []string{
			"gmail.com", "googlemail.com", "yahoo.com", "hotmail.com",
			"outlook.com", "live.com", "icloud.com", "me.com",
			"aol.com", "protonmail.com", "proton.me", "gmx.com",
			"mail.com", "yandex.com", "qq.com", "163.com",
		},
		DisposableEmailDomains: []string{
			"mailinator.com", "guerrillamail.com", "10minutemail.com",
			"tempmail.com", "temp-mail.org", "throwaway.email",
			"yopmail.com", "sharklasers.com", "dispostable.com",
		},
		TechHubs: []string{
			"san francisco", "bay area", "silicon valley", "new york",
			"seattle", "austin", "boston", "london", "berlin",
			"amsterdam", "toronto", "tel aviv", "singapore", "bangalore",
		},
		GrowthHubs: []string{
			"san francisco", "new york", "london", "berlin", "tel aviv",
		},
		EnglishCountries: []string{
			"united states", "usa", "united kingdom", "uk", "canada",
			"australia", "new zealand", "ireland",
		},
		MaintainerKeywords: []string{
			"maintainer", "owner", "core contributor", "core team",
			"creator of", "author of", "lead developer", "bdfl",
		},
		CountryAliases: map[string]string{
			"usa":             "United States",
			"u.s.":            "United States",
			"u.s.a.":          "United States",
			"us":              "United States",
			"america":         "United States",
			"uk":              "United Kingdom",
			"u.k.":            "United Kingdom",
			"england":         "United Kingdom",
			"deutschland":     "Germany",
			"holland":         "Netherlands",
			"the netherlands": "Netherlands",
			"brasil":          "Brazil",
		},
		LanguageAliases: map[string]string{
			"py":         "Python",
			"python":     "Python",
			"python3":    "Python",
			"js":         "JavaScript",
			"javascript": "JavaScript",
			"node":       "JavaScript",
			"nodejs":     "JavaScript",
			"ts":         "TypeScript",
			"typescript": "TypeScript",
			"golang":     "Go",
			"go":         "Go",
			"rb":         "Ruby",
			"ruby":       "Ruby",
			"rs":         "Rust",
			"rust":       "Rust",
			"cpp":        "C++",
			"c++":        "C++",
			"cs":         "C#",
			"c#":         "C#",
			"java":       "Java",
			"kt":         "Kotlin",
			"kotlin":     "Kotlin",
		},
		TechStacks: map[string]TechStack{
			"python-ml": {
				Languages:  []string{"Python"},
				Frameworks: []string{"pytorch", "tensorflow", "scikit-learn", "pandas", "numpy"},
				Domains:    []string{"machine-learning", "ml", "deep-learning", "data-science", "ai", "nlp"},
			},
			"go-backend": {
				Languages:  []string{"Go"},
				Frameworks: []string{"grpc", "chi", "gin", "kubernetes"},
				Domains:    []string{"backend", "microservices", "infrastructure", "devops", "cloud"},
			},
			"typescript-web": {
				Languages:  []string{"TypeScript", "JavaScript"},
				Frameworks: []string{"react", "next.js", "nextjs", "vue", "svelte", "node"},
				Domains:    []string{"frontend", "web", "fullstack", "saas"},
			},
		},
		CompanySizes: map[string][]string{
			"seed": {
				"seed", "stealth", "early stage", "founding", "pre-seed",
			},
			"series-a": {
				"series a", "startup", "scale-up", "scaleup",
			},
			"growth": {
				"series b", "series c", "growth stage", "unicorn", "scale",
			},
		},
	}
}
