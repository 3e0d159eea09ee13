package markup

import (
	"fmt"
	"sort"
)

// QuickActions maps DJ panel quick-action names to behavior tokens.
var QuickActions = map[string]string{
	"celebrate": "Bht_Spin_360",
	"dance":     "Bht_Circle_motion",
	"laugh":     "Bht_Vg_Laugh_Big_Fourcount",
	"wave":      "Bht_Wait_Hug",
	"point":     "Bht_Photo_pose_Curious",
	"think":     "Bht_Vg_Hmm_Confused_Sustained",
	"surprise":  "Bht_Startled",
	"bow":       "Bht_Turn_Away",
	"snore":     "Bht_Vg_Snore_Heavy",
}

// behaviorTiming overrides the default play duration and repeat count for
// behaviors whose animations run longer or shorter than the 2.0s default.
type behaviorTiming struct {
	duration float64
	repeat   int
}

var behaviorTimings = map[string]behaviorTiming{
	"Bht_Back_and_forth_arm_wave": {duration: 3.0, repeat: 2},
	"Bht_raspberry":               {duration: 1.5, repeat: 1},
	"Bht_raspberry_long":          {duration: 3.0, repeat: 1},
	"Bht_Vg_gasp":                 {duration: 1.0, repeat: 1},
	"Bht_Vg_cough":                {duration: 1.5, repeat: 1},
	"Bht_Vg_gulp":                 {duration: 1.0, repeat: 1},
	"Bht_Vg_Psst":                 {duration: 1.0, repeat: 1},
}

// knownBehaviors is the catalog of behavior tokens the DJ panel offers.
var knownBehaviors = []string{
	"Bht_Back_and_forth_arm_wave",
	"Bht_Circle_motion",
	"Bht_Photo_pose_Curious",
	"Bht_Spin_360",
	"Bht_Startled",
	"Bht_Turn_Away",
	"Bht_Vg_Clear_Throat",
	"Bht_Vg_Gasp",
	"Bht_Vg_Gulp",
	"Bht_Vg_Hmm_Confused_Sustained",
	"Bht_Vg_Laugh_Belly",
	"Bht_Vg_Laugh_Big",
	"Bht_Vg_Laugh_Big_Fourcount",
	"Bht_Vg_Laugh_Mischief",
	"Bht_Vg_Laugh_Nervous",
	"Bht_Vg_Oh_Eureka",
	"Bht_Vg_Ooo_Cringe",
	"Bht_Vg_Psst",
	"Bht_Vg_Shiver_Sustained",
	"Bht_Vg_Snore_Heavy",
	"Bht_Vg_Snore_Light",
	"Bht_Vg_cough",
	"Bht_Vg_gasp",
	"Bht_Vg_gulp",
	"Bht_Wait_Hug",
	"Bht_Wing_Flap",
	"Bht_sigh_relief",
	"Bht_yawn_big",
	"bht_accept_hug",
	"bht_clearthroat",
}

// laughLoopAudio prefixes the fourcount laugh with a looping laugh sound
// effect that fades out with the behavior.
const laughLoopAudio = `<mark name="cmd:playaudio,data:{+SoundToPlay+:+sfx_moxie_laugh_loop+,+LoopSound+:true,+playInBackground+:false,+channel+:1,+ReplaceCurrentSound+:true,+PlayImmediate+:true,+ForceQueue+:false,+Volume+:1.0,+FadeInTime+:0.0,+FadeOutTime+:60.0,+AudioTimelineField+:+none+}"/>`

// BehaviorMarkup returns the full command markup for a behavior token.
// Unknown tokens still render through the default template so operators can
// trigger behaviors the catalog has not listed yet.
func BehaviorMarkup(behavior string) string {
	if behavior == LaughBehavior {
		// Big fourcount laugh plays its audio loop alongside the animation,
		// with no transition or layer blending so the repeats chain cleanly.
		return laughLoopAudio + `<mark name="cmd:behaviour-tree,data:{   +transition+:0.0,   +duration+:4.0,   +repeat+:15,   +layerBlendInTime+:0.0,   +layerBlendOutTime+:0.0,   +blocking+:false,   +action+:0,   +eventName+:+Gesture_None+,   +category+:+None+,   +behaviour+:+Bht_Vg_Laugh_Big_Fourcount+,   +Track+:++ }"/>`
	}
	timing, ok := behaviorTimings[behavior]
	if !ok {
		timing = behaviorTiming{duration: 2.0, repeat: 1}
	}
	return defaultBehaviorMarkup(behavior, timing.duration, timing.repeat)
}

// QuickActionBehavior resolves a quick-action name to its behavior token.
// Unknown actions resolve to the neutral gesture.
func QuickActionBehavior(action string) string {
	if behavior, ok := QuickActions[action]; ok {
		return behavior
	}
	return "Gesture_None"
}

// KnownBehaviors returns the behavior catalog, sorted.
func KnownBehaviors() []string {
	out := make([]string, len(knownBehaviors))
	copy(out, knownBehaviors)
	sort.Strings(out)
	return out
}

// SoundEffectMarkup renders a one-shot sound effect command.
func SoundEffectMarkup(sound string, volume float64) string {
	return fmt.Sprintf(`<mark name="cmd:playaudio,data:{+SoundToPlay+:+%s+,+LoopSound+:false,+playInBackground+:false,+channel+:1,+ReplaceCurrentSound+:false,+PlayImmediate+:true,+ForceQueue+:false,+Volume+:%s,+FadeInTime+:0.0,+FadeOutTime+:2.0,+AudioTimelineField+:+none+}"/>`,
		sound, FormatSeconds(volume))
}

func defaultBehaviorMarkup(behavior string, duration float64, repeat int) string {
	return fmt.Sprintf(`<mark name="cmd:behaviour-tree,data:{   +transition+:0.3,   +duration+:%s,   +repeat+:%d,   +layerBlendInTime+:0.4,   +layerBlendOutTime+:0.4,   +blocking+:false,   +action+:0,   +eventName+:+Gesture_None+,   +category+:+None+,   +behaviour+:+%s+,   +Track+:++ }"/>`,
		FormatSeconds(duration), repeat, behavior)
}
