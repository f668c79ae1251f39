package tagging

// category maps a tag name to the substring patterns that imply it. The
// table is fixed at compile time; order matters because matched category
// tags are appended in table order.
type category struct {
	name     string
	patterns []string
}

var categories = []category{
	{"python", []string{"python", "py", "django", "flask", "async", "asyncio"}},
	{"javascript", []string{"javascript", "js", "nodejs", "node.js", "react", "vue", "angular"}},
	{"java", []string{"java", "spring", "maven", "gradle"}},
	{"csharp", []string{"csharp", "c#", "dotnet", ".net", "asp.net", "linq"}},
	{"sql", []string{"sql", "mysql", "postgresql", "database", "oracle"}},
	{"database", []string{"database", "sql", "mongodb", "redis", "cassandra"}},
	{"api", []string{"api", "rest", "graphql", "soap", "http"}},
	{"web", []string{"web", "html", "css", "frontend", "backend"}},
	{"testing", []string{"testing", "unittest", "pytest", "jest", "mocha"}},
	{"docker", []string{"docker", "kubernetes", "devops", "container"}},
	{"git", []string{"git", "github", "gitlab", "version-control"}},
	{"machine-learning", []string{"machine learning", "ml", "tensorflow", "pytorch", "sklearn"}},
}
