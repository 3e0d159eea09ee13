package scripts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.yaml")

	yaml := `name: example
description: Example script
steps:
  - type: speak
    text: "Hello {{.name}}"
  - type: pause
    duration: 5s
  - type: quick_action
    action: wave
`

	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	script, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	if script.Name != "example" {
		t.Fatalf("expected name example, got %q", script.Name)
	}
	if script.Source != path {
		t.Fatalf("expected source %q, got %q", path, script.Source)
	}
	if got := script.Steps[2].Action; got != "wave" {
		t.Fatalf("expected quick_action wave, got %q", got)
	}
}

func TestLoadScriptRejectsBadSteps(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"missing_text.yaml": `name: bad
steps:
  - type: speak
`,
		"unknown_type.yaml": `name: bad
steps:
  - type: teleport
`,
		"no_steps.yaml": `name: bad
steps: []
`,
	}

	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("write script: %v", err)
		}
		if _, err := LoadScript(path); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestRenderScript(t *testing.T) {
	script := &Script{
		Name: "example",
		Steps: []Step{
			{Type: StepTypeSpeak, Text: `Hello {{.name | default "world"}}`},
			{Type: StepTypePause, Duration: "2s"},
			{Type: StepTypeBehavior, Behavior: "Bht_Spin_360"},
			{Type: StepTypeSoundEffect, Sound: "sfxmm_incoming02", Volume: 0.8},
		},
	}

	actions, err := RenderScript(script, map[string]string{})
	if err != nil {
		t.Fatalf("RenderScript: %v", err)
	}
	if len(actions) != 4 {
		t.Fatalf("expected 4 actions, got %d", len(actions))
	}

	if actions[0].Command != "speak" || actions[0].Text != "Hello world" {
		t.Fatalf("unexpected speak action: %+v", actions[0])
	}
	if actions[1].Command != "pause" || actions[1].Seconds != 2 {
		t.Fatalf("unexpected pause action: %+v", actions[1])
	}
	if actions[2].Behavior != "Bht_Spin_360" {
		t.Fatalf("unexpected behavior action: %+v", actions[2])
	}
	if actions[3].Volume != 0.8 {
		t.Fatalf("unexpected sound action: %+v", actions[3])
	}
}

func TestRenderScriptVariables(t *testing.T) {
	script := &Script{
		Name: "example",
		Variables: []ScriptVar{
			{Name: "who", Required: true},
			{Name: "mood", Default: "happy"},
		},
		Steps: []Step{
			{Type: StepTypeSpeak, Text: "{{.who}} is {{.mood}}"},
		},
	}

	if _, err := RenderScript(script, nil); err == nil {
		t.Fatal("expected missing required variable error")
	}

	actions, err := RenderScript(script, map[string]string{"who": "Moxie"})
	if err != nil {
		t.Fatalf("RenderScript: %v", err)
	}
	if actions[0].Text != "Moxie is happy" {
		t.Fatalf("unexpected rendered text: %q", actions[0].Text)
	}
}

func TestRenderScriptRejectsBadPause(t *testing.T) {
	script := &Script{
		Name:  "example",
		Steps: []Step{{Type: StepTypePause, Duration: "soon"}},
	}
	if _, err := RenderScript(script, nil); err == nil {
		t.Fatal("expected invalid duration error")
	}
}

func TestLoadBuiltinScripts(t *testing.T) {
	builtins, err := LoadBuiltinScripts()
	if err != nil {
		t.Fatalf("LoadBuiltinScripts: %v", err)
	}
	if len(builtins) == 0 {
		t.Fatal("expected bundled scripts")
	}
	for _, script := range builtins {
		if script.Source != "builtin" {
			t.Fatalf("expected builtin source, got %q", script.Source)
		}
		if _, err := RenderScript(script, nil); err != nil {
			t.Fatalf("builtin script %q does not render: %v", script.Name, err)
		}
	}
}

func TestLoadScriptsFromSearchPathsPrecedence(t *testing.T) {
	dataDir := t.TempDir()
	scriptsDir := filepath.Join(dataDir, "scripts")
	if err := os.MkdirAll(scriptsDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	override := `name: greeting
steps:
  - type: speak
    text: "Custom greeting"
`
	if err := os.WriteFile(filepath.Join(scriptsDir, "greeting.yaml"), []byte(override), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	scripts, err := LoadScriptsFromSearchPaths(dataDir)
	if err != nil {
		t.Fatalf("LoadScriptsFromSearchPaths: %v", err)
	}

	var greeting *Script
	for _, script := range scripts {
		if script.Name == "greeting" {
			greeting = script
		}
	}
	if greeting == nil {
		t.Fatal("greeting script not found")
	}
	if greeting.Source == "builtin" {
		t.Fatal("local script should take precedence over the builtin")
	}
}
