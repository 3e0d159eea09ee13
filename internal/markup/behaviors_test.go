package markup

import (
	"strings"
	"testing"
)

func TestBehaviorMarkupKnownToken(t *testing.T) {
	m := BehaviorMarkup("Bht_Spin_360")
	if !strings.Contains(m, "+behaviour+:+Bht_Spin_360+") {
		t.Fatalf("markup does not carry the behavior token: %q", m)
	}
	if len(BehaviorElements(m)) != 1 {
		t.Fatalf("expected one behaviour-tree element, got %q", m)
	}
}

func TestBehaviorMarkupLaughIncludesAudioLoop(t *testing.T) {
	m := BehaviorMarkup(LaughBehavior)
	if !strings.Contains(m, "cmd:playaudio") {
		t.Fatal("fourcount laugh must start its audio loop")
	}
	if !strings.Contains(m, "sfx_moxie_laugh_loop") {
		t.Fatal("fourcount laugh must reference the laugh loop sound")
	}
	if !strings.Contains(m, "+behaviour+:+Bht_Vg_Laugh_Big_Fourcount+") {
		t.Fatal("fourcount laugh must carry the behavior token")
	}
}

func TestBehaviorMarkupUnknownTokenUsesTemplate(t *testing.T) {
	m := BehaviorMarkup("Bht_Totally_New")
	if !strings.Contains(m, "+behaviour+:+Bht_Totally_New+") {
		t.Fatalf("template fallback missing token: %q", m)
	}
}

func TestQuickActionBehavior(t *testing.T) {
	if got := QuickActionBehavior("laugh"); got != LaughBehavior {
		t.Fatalf("laugh quick action resolved to %q", got)
	}
	if got := QuickActionBehavior("no-such-action"); got != "Gesture_None" {
		t.Fatalf("unknown quick action resolved to %q", got)
	}
}

func TestSoundEffectMarkup(t *testing.T) {
	m := SoundEffectMarkup("sfxmm_incoming02", 0.8)
	if !strings.Contains(m, "+SoundToPlay+:+sfxmm_incoming02+") {
		t.Fatalf("sound markup missing sound name: %q", m)
	}
	if !strings.Contains(m, "+Volume+:0.8") {
		t.Fatalf("sound markup missing volume: %q", m)
	}
}

func TestPresetLookup(t *testing.T) {
	if Preset("no-such-preset") != nil {
		t.Fatal("unknown preset must return nil")
	}

	actions := Preset("party")
	if len(actions) == 0 {
		t.Fatal("party preset must have actions")
	}

	// Returned slice is a copy; mutating it must not affect the catalog.
	actions[0] = PresetAction{}
	if fresh := Preset("party"); fresh[0].Type == "" {
		t.Fatal("preset catalog was mutated through the returned slice")
	}

	names := PresetNames()
	if len(names) == 0 {
		t.Fatal("expected preset names")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("preset names not sorted: %v", names)
		}
	}
}
