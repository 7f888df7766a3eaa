package config

// Meta carries the program identity used for --version/--help banners
// and diagnostics, set once in cmd/main.go.
type Meta struct {
	ID      string
	Name    string
	Desc    string
	URL     string
	Author  string
	Version string
}
