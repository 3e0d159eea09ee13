package scripts

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/moxierobots/openmoxie/internal/dj"
)

// RenderScript renders a script into macro actions with variables applied.
func RenderScript(script *Script, vars map[string]string) ([]dj.MacroAction, error) {
	if script == nil {
		return nil, fmt.Errorf("script is required")
	}

	data := make(map[string]string, len(vars))
	for key, value := range vars {
		data[key] = value
	}

	for _, variable := range script.Variables {
		value := strings.TrimSpace(data[variable.Name])
		if value == "" {
			if variable.Default != "" {
				data[variable.Name] = variable.Default
				continue
			}
			if variable.Required {
				return nil, fmt.Errorf("missing required variable %q", variable.Name)
			}
		}
	}

	actions := make([]dj.MacroAction, 0, len(script.Steps))
	for i, step := range script.Steps {
		switch step.Type {
		case StepTypeSpeak:
			text, err := renderText(script.Name, step.Text, data)
			if err != nil {
				return nil, fmt.Errorf("render script %q step %d: %w", script.Name, i+1, err)
			}
			actions = append(actions, dj.MacroAction{Command: "speak", Text: text})

		case StepTypeBehavior:
			actions = append(actions, dj.MacroAction{Command: "behavior", Behavior: step.Behavior})

		case StepTypeQuickAction:
			actions = append(actions, dj.MacroAction{Command: "quick_action", Action: step.Action})

		case StepTypeSoundEffect:
			actions = append(actions, dj.MacroAction{Command: "sound_effect", Sound: step.Sound, Volume: step.Volume})

		case StepTypePreset:
			actions = append(actions, dj.MacroAction{Command: "preset", Preset: step.Preset})

		case StepTypePause:
			duration, err := time.ParseDuration(step.Duration)
			if err != nil {
				return nil, fmt.Errorf("render script %q step %d: invalid pause duration: %w", script.Name, i+1, err)
			}
			if duration <= 0 {
				return nil, fmt.Errorf("render script %q step %d: pause duration must be greater than 0", script.Name, i+1)
			}
			actions = append(actions, dj.MacroAction{Command: "pause", Seconds: duration.Seconds()})

		default:
			return nil, fmt.Errorf("render script %q step %d: unknown step type %q", script.Name, i+1, step.Type)
		}
	}

	return actions, nil
}

func renderText(name, content string, data map[string]string) (string, error) {
	parsed, err := template.New(name).
		Funcs(template.FuncMap{"default": defaultValue}).
		Option("missingkey=zero").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}

	return out.String(), nil
}

func defaultValue(def string, value any) string {
	if value == nil {
		return def
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	default:
		text := strings.TrimSpace(fmt.Sprint(v))
		if text == "" {
			return def
		}
		return text
	}
}
