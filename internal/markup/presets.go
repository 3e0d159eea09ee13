package markup

import "sort"

// PresetActionType identifies one step in a preset combination.
type PresetActionType string

const (
	PresetActionSpeak       PresetActionType = "speak"
	PresetActionBehavior    PresetActionType = "behavior"
	PresetActionSoundEffect PresetActionType = "sound_effect"
)

// PresetAction is a single step played as part of a preset.
type PresetAction struct {
	Type      PresetActionType
	Text      string
	Mood      string
	Intensity float64
	Behavior  string
	Sound     string
	Volume    float64
}

var presets = map[string][]PresetAction{
	"greeting": {
		{Type: PresetActionSpeak, Text: "Hello there! How are you doing today?", Mood: "happy", Intensity: 0.7},
		{Type: PresetActionBehavior, Behavior: "Bht_Wait_Hug"},
	},
	"party": {
		{Type: PresetActionSoundEffect, Sound: "sfxmm_incoming02", Volume: 0.8},
		{Type: PresetActionBehavior, Behavior: "Bht_Vg_Laugh_Big"},
		{Type: PresetActionBehavior, Behavior: "Bht_Spin_360"},
		{Type: PresetActionSpeak, Text: "Party time! Let's celebrate!", Mood: "excited", Intensity: 0.9},
	},
	"calm": {
		{Type: PresetActionBehavior, Behavior: "Bht_sigh_relief"},
		{Type: PresetActionSpeak, Text: "Let's take a deep breath and relax.", Mood: "neutral", Intensity: 0.3},
		{Type: PresetActionBehavior, Behavior: "Bht_yawn_big"},
	},
	"energetic": {
		{Type: PresetActionSpeak, Text: "Let's get energized! Are you ready?", Mood: "excited", Intensity: 0.8},
		{Type: PresetActionBehavior, Behavior: "Bht_Vg_Oh_Eureka"},
		{Type: PresetActionBehavior, Behavior: "Bht_Circle_motion"},
	},
	"dj_session": {
		{Type: PresetActionSpeak, Text: "Let's get this party started! DJ Moxie in the house!", Mood: "excited", Intensity: 0.9},
		{Type: PresetActionBehavior, Behavior: "Bht_Back_and_forth_arm_wave"},
		{Type: PresetActionSoundEffect, Sound: "sfxmm_incoming02", Volume: 0.9},
		{Type: PresetActionBehavior, Behavior: "Bht_Spin_360"},
		{Type: PresetActionSpeak, Text: "Feel the beat! Let's dance together!", Mood: "excited", Intensity: 0.8},
	},
	"beat_match": {
		{Type: PresetActionBehavior, Behavior: "Bht_Vg_Oh_Eureka"},
		{Type: PresetActionSpeak, Text: "Perfect beat match! The rhythm is just right!", Mood: "happy", Intensity: 0.7},
		{Type: PresetActionBehavior, Behavior: "Bht_Circle_motion"},
		{Type: PresetActionSoundEffect, Sound: "sfxmm_incoming02", Volume: 0.8},
		{Type: PresetActionBehavior, Behavior: "Bht_raspberry"},
	},
}

// Preset returns the action list for a preset name, or nil if unknown.
func Preset(name string) []PresetAction {
	actions, ok := presets[name]
	if !ok {
		return nil
	}
	out := make([]PresetAction, len(actions))
	copy(out, actions)
	return out
}

// PresetNames returns the available preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
