package config

// defaultActiveVerbs are action verbs that signal ownership and impact.
var defaultActiveVerbs = []string{
	"accelerated", "achieved", "architected", "automated", "boosted", "built",
	"championed", "coached", "created", "cut", "delivered", "designed",
	"developed", "directed", "drove", "eliminated", "engineered", "established",
	"expanded", "generated", "grew", "implemented", "improved", "increased",
	"initiated", "launched", "led", "managed", "mentored", "migrated",
	"modernized", "negotiated", "optimized", "orchestrated", "organized", "owned",
	"pioneered", "produced", "reduced", "redesigned", "refactored", "resolved",
	"restructured", "saved", "scaled", "secured", "shipped", "simplified",
	"spearheaded", "streamlined", "strengthened", "trained", "transformed", "won",
}

// defaultJargon are buzzwords and filler phrases. Multi-word entries match as token runs.
var defaultJargon = []string{
	"synergy", "synergies", "leverage", "leveraged", "guru", "ninja", "rockstar",
	"passionate", "motivated", "team player", "results driven", "detail oriented",
	"go getter", "think outside the box", "best of breed", "thought leader",
	"dynamic", "innovative", "strategic thinker", "self starter", "hard working",
	"hardworking", "wheelhouse", "disruptive", "paradigm", "bandwidth",
	"move the needle", "value add", "circle back", "world class", "cutting edge",
	"game changer", "proactive", "visionary", "seasoned", "holistic",
}

// defaultStopWords never become keywords.
var defaultStopWords = []string{
	"a", "about", "above", "after", "again", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "been", "being", "both", "but", "by",
	"can", "could", "did", "do", "does", "doing", "during", "each", "etc",
	"every", "few", "for", "from", "further", "had", "has", "have", "having",
	"he", "her", "here", "hers", "him", "his", "how", "i", "if", "in", "into",
	"is", "it", "its", "just", "may", "me", "more", "most", "must", "my",
	"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "out", "over", "own", "per", "plus", "same",
	"she", "should", "so", "some", "such", "than", "that", "the", "their",
	"them", "then", "there", "these", "they", "this", "those", "through",
	"to", "too", "under", "until", "up", "us", "very", "via", "was", "we",
	"were", "what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "within", "would", "you", "your", "yours",
	"ability", "able", "candidate", "candidates", "including", "join",
	"looking", "new", "preferred", "required", "requirements", "responsibilities",
	"role", "seeking", "strong", "want", "work", "working", "year", "years",
}

// defaultIndustryGlossary maps a lower-case industry name to its standard terms.
var defaultIndustryGlossary = map[string][]string{
	"technology": {
		"agile", "api", "cloud", "ci cd", "devops", "distributed systems",
		"kubernetes", "machine learning", "microservices", "scalability", "security",
	},
	"finance": {
		"compliance", "financial modeling", "forecasting", "investment", "portfolio",
		"risk management", "valuation", "audit", "budgeting",
	},
	"healthcare": {
		"patient care", "clinical", "hipaa", "ehr", "compliance",
		"quality improvement", "care coordination", "regulatory",
	},
	"marketing": {
		"brand", "campaign", "content strategy", "conversion", "seo",
		"analytics", "go to market", "segmentation", "roi",
	},
	"sales": {
		"pipeline", "quota", "crm", "prospecting", "negotiation",
		"account management", "forecasting", "revenue",
	},
	"education": {
		"curriculum", "instruction", "assessment", "student outcomes",
		"lesson planning", "classroom management", "learning",
	},
	"consulting": {
		"stakeholder management", "strategy", "client", "roadmap",
		"change management", "process improvement", "deliverables",
	},
}
