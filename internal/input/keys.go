package input

import "strings"

// keyAliases maps the spellings found in older presets and capture tools
// to the canonical key names understood by every backend.
var keyAliases = map[string]string{
	"return":       "enter",
	"escape":       "esc",
	"spacebar":     "space",
	"del":          "delete",
	"ins":          "insert",
	"pgup":         "pageup",
	"pgdn":         "pagedown",
	"page_up":      "pageup",
	"page_down":    "pagedown",
	"arrowup":      "up",
	"arrowdown":    "down",
	"arrowleft":    "left",
	"arrowright":   "right",
	"shiftleft":    "lshift",
	"shiftright":   "rshift",
	"shift_l":      "lshift",
	"shift_r":      "rshift",
	"ctrlleft":     "lctrl",
	"ctrlright":    "rctrl",
	"ctrl_l":       "lctrl",
	"ctrl_r":       "rctrl",
	"control":      "ctrl",
	"altleft":      "lalt",
	"altright":     "ralt",
	"alt_l":        "lalt",
	"alt_r":        "ralt",
	"alt_gr":       "ralt",
	"option":       "alt",
	"win":          "cmd",
	"winleft":      "lcmd",
	"winright":     "rcmd",
	"super":        "cmd",
	"command":      "cmd",
	"cmd_l":        "lcmd",
	"cmd_r":        "rcmd",
	"caps_lock":    "capslock",
	"num_lock":     "numlock",
	"scroll_lock":  "scrolllock",
	"print_screen": "printscreen",
	"prtsc":        "printscreen",
	"prtscr":       "printscreen",
	"apps":         "menu",
}

// NormalizeKey lower-cases and trims a key name and resolves known aliases.
func NormalizeKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "key.")
	if alias, ok := keyAliases[key]; ok {
		return alias
	}
	return key
}
