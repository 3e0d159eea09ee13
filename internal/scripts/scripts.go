// Package scripts provides loading and rendering of multi-step device
// action scripts.
package scripts

// Script represents an ordered list of device actions.
type Script struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []Step      `yaml:"steps"`
	Variables   []ScriptVar `yaml:"variables,omitempty"`
	Tags        []string    `yaml:"tags,omitempty"`
	Source      string      // file path or "builtin"
}

// Step represents a single device action in a script.
type Step struct {
	Type     StepType `yaml:"type"`
	Text     string   `yaml:"text,omitempty"`
	Behavior string   `yaml:"behavior,omitempty"`
	Action   string   `yaml:"action,omitempty"`
	Sound    string   `yaml:"sound,omitempty"`
	Volume   float64  `yaml:"volume,omitempty"`
	Preset   string   `yaml:"preset,omitempty"`
	Duration string   `yaml:"duration,omitempty"`
}

// ScriptVar describes a variable used in a script.
type ScriptVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}

// StepType defines the kind of script step.
type StepType string

const (
	StepTypeSpeak       StepType = "speak"
	StepTypeBehavior    StepType = "behavior"
	StepTypeQuickAction StepType = "quick_action"
	StepTypeSoundEffect StepType = "sound_effect"
	StepTypePreset      StepType = "preset"
	StepTypePause       StepType = "pause"
)
