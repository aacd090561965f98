//go:build linux

package uinputdev

import "github.com/bendahl/uinput"

// KeyCodes maps canonical key names to Linux key codes.
var KeyCodes = map[string]int{
	"a": uinput.KeyA, "b": uinput.KeyB, "c": uinput.KeyC, "d": uinput.KeyD,
	"e": uinput.KeyE, "f": uinput.KeyF, "g": uinput.KeyG, "h": uinput.KeyH,
	"i": uinput.KeyI, "j": uinput.KeyJ, "k": uinput.KeyK, "l": uinput.KeyL,
	"m": uinput.KeyM, "n": uinput.KeyN, "o": uinput.KeyO, "p": uinput.KeyP,
	"q": uinput.KeyQ, "r": uinput.KeyR, "s": uinput.KeyS, "t": uinput.KeyT,
	"u": uinput.KeyU, "v": uinput.KeyV, "w": uinput.KeyW, "x": uinput.KeyX,
	"y": uinput.KeyY, "z": uinput.KeyZ,

	"0": uinput.Key0, "1": uinput.Key1, "2": uinput.Key2, "3": uinput.Key3,
	"4": uinput.Key4, "5": uinput.Key5, "6": uinput.Key6, "7": uinput.Key7,
	"8": uinput.Key8, "9": uinput.Key9,

	"f1": uinput.KeyF1, "f2": uinput.KeyF2, "f3": uinput.KeyF3, "f4": uinput.KeyF4,
	"f5": uinput.KeyF5, "f6": uinput.KeyF6, "f7": uinput.KeyF7, "f8": uinput.KeyF8,
	"f9": uinput.KeyF9, "f10": uinput.KeyF10, "f11": uinput.KeyF11, "f12": uinput.KeyF12,

	"enter":     uinput.KeyEnter,
	"esc":       uinput.KeyEsc,
	"tab":       uinput.KeyTab,
	"space":     uinput.KeySpace,
	"backspace": uinput.KeyBackspace,
	"delete":    uinput.KeyDelete,
	"insert":    uinput.KeyInsert,
	"home":      uinput.KeyHome,
	"end":       uinput.KeyEnd,
	"pageup":    uinput.KeyPageup,
	"pagedown":  uinput.KeyPagedown,

	"up":    uinput.KeyUp,
	"down":  uinput.KeyDown,
	"left":  uinput.KeyLeft,
	"right": uinput.KeyRight,

	"shift":  uinput.KeyLeftshift,
	"lshift": uinput.KeyLeftshift,
	"rshift": uinput.KeyRightshift,
	"ctrl":   uinput.KeyLeftctrl,
	"lctrl":  uinput.KeyLeftctrl,
	"rctrl":  uinput.KeyRightctrl,
	"alt":    uinput.KeyLeftalt,
	"lalt":   uinput.KeyLeftalt,
	"ralt":   uinput.KeyRightalt,
	"cmd":    uinput.KeyLeftmeta,
	"lcmd":   uinput.KeyLeftmeta,
	"rcmd":   uinput.KeyRightmeta,

	"capslock":    uinput.KeyCapslock,
	"numlock":     uinput.KeyNumlock,
	"scrolllock":  uinput.KeyScrolllock,
	"printscreen": uinput.KeySysrq,
	"menu":        uinput.KeyCompose,
	"pause":       uinput.KeyPause,

	"-":  uinput.KeyMinus,
	"=":  uinput.KeyEqual,
	"[":  uinput.KeyLeftbrace,
	"]":  uinput.KeyRightbrace,
	";":  uinput.KeySemicolon,
	"'":  uinput.KeyApostrophe,
	"`":  uinput.KeyGrave,
	"\\": uinput.KeyBackslash,
	",":  uinput.KeyComma,
	".":  uinput.KeyDot,
	"/":  uinput.KeySlash,

	"volumeup":   uinput.KeyVolumeup,
	"volumedown": uinput.KeyVolumedown,
	"volumemute": uinput.KeyMute,
}
