package dictionary

// Builtin tables. Curated for the tech/reading-heavy corpora bookmark
// collections tend to be; not meant to be exhaustive.

var defaultSynonyms = map[string][]string{
	"ai":         {"artificial intelligence", "machine learning", "ml", "llm", "deep learning", "neural network"},
	"llm":        {"ai", "gpt", "language model", "chatgpt", "claude", "transformer"},
	"ml":         {"machine learning", "ai", "deep learning", "model", "training"},
	"gpt":        {"llm", "chatgpt", "openai", "language model"},
	"python":     {"py", "pip", "django", "flask", "pandas", "numpy"},
	"javascript": {"js", "node", "nodejs", "typescript", "react", "vue"},
	"js":         {"javascript", "node", "frontend"},
	"typescript": {"ts", "javascript", "frontend"},
	"golang":     {"go", "goroutine", "gopher"},
	"rust":       {"cargo", "crate", "systems programming"},
	"react":      {"jsx", "frontend", "component", "hooks"},
	"vue":        {"frontend", "component", "vite"},
	"css":        {"style", "stylesheet", "tailwind", "frontend", "design"},
	"html":       {"markup", "frontend", "web"},
	"frontend":   {"ui", "web", "css", "javascript", "design"},
	"backend":    {"server", "api", "database", "service"},
	"api":        {"rest", "graphql", "endpoint", "backend", "sdk"},
	"database":   {"db", "sql", "postgres", "mysql", "storage"},
	"sql":        {"database", "query", "postgres", "mysql"},
	"docker":     {"container", "image", "kubernetes", "devops"},
	"kubernetes": {"k8s", "container", "cluster", "devops"},
	"devops":     {"ci", "cd", "deploy", "docker", "infrastructure"},
	"git":        {"github", "gitlab", "version control", "commit"},
	"github":     {"git", "repo", "repository", "open source"},
	"linux":      {"unix", "shell", "bash", "terminal"},
	"shell":      {"bash", "zsh", "terminal", "cli"},
	"security":   {"auth", "encryption", "vulnerability", "password"},
	"auth":       {"authentication", "oauth", "login", "security"},
	"cloud":      {"aws", "gcp", "azure", "serverless"},
	"aws":        {"amazon", "cloud", "s3", "lambda", "ec2"},
	"data":       {"dataset", "analytics", "pandas", "visualization"},
	"design":     {"ui", "ux", "figma", "typography", "layout"},
	"tutorial":   {"guide", "howto", "course", "learn", "lesson"},
	"blog":       {"article", "post", "essay", "writing"},
	"news":       {"article", "headline", "daily"},
	"video":      {"youtube", "stream", "watch", "lecture"},
	"book":       {"ebook", "reading", "novel", "pdf"},
	"paper":      {"arxiv", "research", "study", "publication"},
	"recipe":     {"cooking", "food", "baking", "ingredients"},
	"travel":     {"trip", "flight", "hotel", "vacation"},
	"finance":    {"money", "investing", "stocks", "budget", "crypto"},
	"crypto":     {"bitcoin", "ethereum", "blockchain", "finance"},
	"music":      {"song", "album", "playlist", "spotify"},
	"game":       {"gaming", "steam", "gamedev", "play"},
	"health":     {"fitness", "workout", "nutrition", "sleep"},
	"shopping":   {"store", "buy", "deal", "price"},
}

var defaultCategories = map[string][]string{
	"ai":            {"llm", "gpt", "machine learning", "deep learning", "neural network", "chatgpt", "model", "prompt"},
	"programming":   {"code", "python", "javascript", "golang", "rust", "api", "debug", "algorithm"},
	"frontend":      {"react", "vue", "css", "html", "javascript", "typescript", "ui"},
	"backend":       {"api", "database", "server", "sql", "cache", "queue"},
	"devops":        {"docker", "kubernetes", "ci", "deploy", "terraform", "monitoring"},
	"design":        {"ui", "ux", "figma", "typography", "color", "layout"},
	"reading":       {"article", "blog", "book", "essay", "paper", "longform"},
	"learning":      {"tutorial", "course", "guide", "lecture", "documentation"},
	"entertainment": {"video", "music", "game", "movie", "podcast"},
	"finance":       {"investing", "stocks", "crypto", "budget", "tax"},
	"lifestyle":     {"recipe", "travel", "health", "fitness", "shopping"},
	"news":          {"headline", "daily", "tech news", "newsletter"},
}
