package camemu

import "fmt"

// Attribute identifies an image-processing control of the emulated camera.
type Attribute int

const (
	AttributeSaturation Attribute = iota
	AttributeBrightness
	AttributeContrast
	AttributeSharpness
	AttributeReverse
	AttributeEffect
	AttributeEV
	AttributeZoom
	AttributeAntiFlicker
	AttributeISO
	AttributeGain
	AttributeWhiteBalance
	AttributeBacklight
	AttributeNightmode
)

// Attribute values reported by the emulated camera.
const (
	SaturationDefault = 10  // 1.0
	BrightnessDefault = 128 // mid scale
	ContrastDefault   = 32  // 1.0
	SharpnessDefault  = 1   // 100%
	ReverseOff        = 0
	EffectOff         = 0
	EVDefault         = 0
	ZoomDefault       = 10 // 1.0x
	AntiFlickerAuto   = 1
	ISOAuto           = 1
	GainAuto          = 0
	WhiteBalanceAuto  = 0
	BacklightOff      = 0
	NightmodeOff      = 0
)

var attributeDefaults = [...]int32{
	AttributeSaturation:   SaturationDefault,
	AttributeBrightness:   BrightnessDefault,
	AttributeContrast:     ContrastDefault,
	AttributeSharpness:    SharpnessDefault,
	AttributeReverse:      ReverseOff,
	AttributeEffect:       EffectOff,
	AttributeEV:           EVDefault,
	AttributeZoom:         ZoomDefault,
	AttributeAntiFlicker:  AntiFlickerAuto,
	AttributeISO:          ISOAuto,
	AttributeGain:         GainAuto,
	AttributeWhiteBalance: WhiteBalanceAuto,
	AttributeBacklight:    BacklightOff,
	AttributeNightmode:    NightmodeOff,
}

var attributeNames = [...]string{
	AttributeSaturation:   "saturation",
	AttributeBrightness:   "brightness",
	AttributeContrast:     "contrast",
	AttributeSharpness:    "sharpness",
	AttributeReverse:      "reverse",
	AttributeEffect:       "effect",
	AttributeEV:           "ev",
	AttributeZoom:         "zoom",
	AttributeAntiFlicker:  "antiflicker",
	AttributeISO:          "iso",
	AttributeGain:         "gain",
	AttributeWhiteBalance: "whitebalance",
	AttributeBacklight:    "backlight",
	AttributeNightmode:    "nightmode",
}

func (a Attribute) String() string {
	if a < 0 || int(a) >= len(attributeNames) {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeNames[a]
}

// Default returns the value the emulated camera always reports.
func (a Attribute) Default() (int32, error) {
	if a < 0 || int(a) >= len(attributeDefaults) {
		return 0, fmt.Errorf("%w: unknown attribute %d", ErrParam, int(a))
	}
	return attributeDefaults[a], nil
}
