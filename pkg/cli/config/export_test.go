package config

// NewAppWithPath builds an App pointing at a config file, bypassing flag
// parsing in tests.
func NewAppWithPath(path string) *App {
	return &App{path: path}
}
