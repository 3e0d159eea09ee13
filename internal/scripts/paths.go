package scripts

import (
	"os"
	"path/filepath"
)

// ScriptSearchPaths returns script search directories in precedence order.
func ScriptSearchPaths(dataDir string) []string {
	paths := make([]string, 0, 3)
	if dataDir != "" {
		paths = append(paths, filepath.Join(dataDir, "scripts"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "moxie", "scripts"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "moxie", "scripts"))
	return paths
}

// LoadScriptsFromSearchPaths loads scripts from search paths with first-hit
// precedence; bundled scripts fill in last.
func LoadScriptsFromSearchPaths(dataDir string) ([]*Script, error) {
	paths := ScriptSearchPaths(dataDir)
	seen := make(map[string]*Script)
	order := make([]string, 0)

	for _, path := range paths {
		scripts, err := LoadScriptsFromDir(path)
		if err != nil {
			return nil, err
		}
		for _, script := range scripts {
			if _, exists := seen[script.Name]; exists {
				continue
			}
			seen[script.Name] = script
			order = append(order, script.Name)
		}
	}

	builtins, err := LoadBuiltinScripts()
	if err != nil {
		return nil, err
	}
	for _, script := range builtins {
		if _, exists := seen[script.Name]; exists {
			continue
		}
		seen[script.Name] = script
		order = append(order, script.Name)
	}

	resolved := make([]*Script, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}

	return resolved, nil
}
