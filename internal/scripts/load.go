package scripts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadScript reads a single script from disk.
func LoadScript(path string) (*Script, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("script path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	script, err := parseScript(data)
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	script.Source = path
	return script, nil
}

// LoadScriptsFromDir loads all scripts from a directory.
func LoadScriptsFromDir(dir string) ([]*Script, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Script{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Script{}, nil
		}
		return nil, fmt.Errorf("read scripts dir %s: %w", dir, err)
	}

	scripts := make([]*Script, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, name)
		script, err := LoadScript(path)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})

	return scripts, nil
}

func parseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	script.Name = strings.TrimSpace(script.Name)
	if script.Name == "" {
		return nil, fmt.Errorf("script name is required")
	}
	script.Description = strings.TrimSpace(script.Description)

	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script steps are required")
	}

	seen := make(map[string]struct{})
	for i := range script.Variables {
		name := strings.TrimSpace(script.Variables[i].Name)
		if name == "" {
			return nil, fmt.Errorf("script variable name is required")
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("duplicate script variable %q", name)
		}
		seen[name] = struct{}{}
		script.Variables[i].Name = name
	}

	for i := range script.Steps {
		if err := normalizeStep(&script.Steps[i]); err != nil {
			return nil, fmt.Errorf("script step %d: %w", i+1, err)
		}
	}

	return &script, nil
}

func normalizeStep(step *Step) error {
	stepType := strings.ToLower(strings.TrimSpace(string(step.Type)))
	step.Type = StepType(stepType)

	step.Text = strings.TrimSpace(step.Text)
	step.Behavior = strings.TrimSpace(step.Behavior)
	step.Action = strings.TrimSpace(step.Action)
	step.Sound = strings.TrimSpace(step.Sound)
	step.Preset = strings.TrimSpace(step.Preset)
	step.Duration = strings.TrimSpace(step.Duration)

	switch step.Type {
	case StepTypeSpeak:
		if step.Text == "" {
			return fmt.Errorf("speak step requires text")
		}
	case StepTypeBehavior:
		if step.Behavior == "" {
			return fmt.Errorf("behavior step requires a behavior token")
		}
	case StepTypeQuickAction:
		if step.Action == "" {
			return fmt.Errorf("quick_action step requires an action name")
		}
	case StepTypeSoundEffect:
		if step.Sound == "" {
			return fmt.Errorf("sound_effect step requires a sound name")
		}
	case StepTypePreset:
		if step.Preset == "" {
			return fmt.Errorf("preset step requires a preset name")
		}
	case StepTypePause:
		if step.Duration == "" {
			return fmt.Errorf("pause step requires a duration")
		}
	default:
		return fmt.Errorf("unknown step type %q", step.Type)
	}

	return nil
}
