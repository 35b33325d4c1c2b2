package qrcode

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/prasetyowira/qr-utils/domain/qrerr"
	goqrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/colornames"
)

// Level is an error-correction level.
type Level string

const (
	LevelL Level = "L"
	LevelM Level = "M"
	LevelQ Level = "Q"
	LevelH Level = "H"
)

// ParseLevel accepts L, M, Q or H in any case.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelL, LevelM, LevelQ, LevelH:
		return l, nil
	}
	return "", qrerr.Validation("ParseLevel", "unknown error correction level %q", s)
}

// UnmarshalText lets JSON and text decoders accept any case.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Level) recovery() (goqrcode.RecoveryLevel, error) {
	switch l {
	case LevelL:
		return goqrcode.Low, nil
	case LevelM:
		return goqrcode.Medium, nil
	case LevelQ:
		return goqrcode.High, nil
	case LevelH:
		return goqrcode.Highest, nil
	}
	return 0, qrerr.Validation("Level", "unknown error correction level %q", string(l))
}

const (
	MinVersion = 1
	MaxVersion = 40

	// MaxImageSide caps the rendered width and height in pixels, border
	// included, for the largest symbol version.
	MaxImageSide = 8192

	maxVersionModules = 17 + 4*MaxVersion
)

// Settings controls how a payload is drawn.
type Settings struct {
	Version         int    `json:"version" mapstructure:"version"`
	ErrorCorrection Level  `json:"error_correction" mapstructure:"error_correction"`
	ModuleSize      int    `json:"box_size" mapstructure:"box_size"`
	Border          int    `json:"border" mapstructure:"border"`
	FillColor       string `json:"fill_color" mapstructure:"fill_color"`
	BackColor       string `json:"back_color" mapstructure:"back_color"`
}

// DefaultSettings mirrors the defaults written to a fresh config file.
func DefaultSettings() Settings {
	return Settings{
		Version:         1,
		ErrorCorrection: LevelH,
		ModuleSize:      10,
		Border:          4,
		FillColor:       "black",
		BackColor:       "white",
	}
}

// Overrides holds per-call replacements; nil fields keep the base value.
type Overrides struct {
	Version         *int    `json:"version,omitempty"`
	ErrorCorrection *Level  `json:"error_correction,omitempty"`
	ModuleSize      *int    `json:"box_size,omitempty"`
	Border          *int    `json:"border,omitempty"`
	FillColor       *string `json:"fill_color,omitempty"`
	BackColor       *string `json:"back_color,omitempty"`
}

// Merge returns s with every non-nil override applied.
func (s Settings) Merge(o Overrides) Settings {
	if o.Version != nil {
		s.Version = *o.Version
	}
	if o.ErrorCorrection != nil {
		s.ErrorCorrection = *o.ErrorCorrection
	}
	if o.ModuleSize != nil {
		s.ModuleSize = *o.ModuleSize
	}
	if o.Border != nil {
		s.Border = *o.Border
	}
	if o.FillColor != nil {
		s.FillColor = *o.FillColor
	}
	if o.BackColor != nil {
		s.BackColor = *o.BackColor
	}
	return s
}

// Normalize validates s and returns it with the error-correction level in
// canonical upper case.
func (s Settings) Normalize() (Settings, error) {
	level, err := ParseLevel(string(s.ErrorCorrection))
	if err != nil {
		return s, err
	}
	s.ErrorCorrection = level
	return s, s.Validate()
}

// Validate checks ranges, image size and colour syntax.
func (s Settings) Validate() error {
	if s.Version < MinVersion || s.Version > MaxVersion {
		return qrerr.Validation("Settings", "version %d out of range [%d, %d]", s.Version, MinVersion, MaxVersion)
	}
	if _, err := ParseLevel(string(s.ErrorCorrection)); err != nil {
		return err
	}
	if s.ModuleSize < 1 {
		return qrerr.Validation("Settings", "module size must be at least 1, got %d", s.ModuleSize)
	}
	if s.Border < 0 {
		return qrerr.Validation("Settings", "border must not be negative, got %d", s.Border)
	}
	if !fitsImageLimit(s) {
		return qrerr.Validation("Settings", "box size %d with border %d exceeds the %dpx image limit",
			s.ModuleSize, s.Border, MaxImageSide)
	}
	if _, err := ParseColor(s.FillColor); err != nil {
		return err
	}
	if _, err := ParseColor(s.BackColor); err != nil {
		return err
	}
	return nil
}

// fitsImageLimit reports whether a version 40 symbol drawn with s stays within
// MaxImageSide. Oversized inputs are rejected before multiplying so the
// product cannot overflow.
func fitsImageLimit(s Settings) bool {
	if s.ModuleSize > MaxImageSide || s.Border > MaxImageSide {
		return false
	}
	return (maxVersionModules+2*s.Border)*s.ModuleSize <= MaxImageSide
}

// String is used for cache keys and logs.
func (s Settings) String() string {
	return fmt.Sprintf("v%d/%s/m%d/b%d/%s/%s", s.Version, strings.ToUpper(string(s.ErrorCorrection)), s.ModuleSize, s.Border,
		strings.ToLower(s.FillColor), strings.ToLower(s.BackColor))
}

// ParseColor understands SVG/CSS colour names, #rgb and #rrggbb.
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") {
		return nil, qrerr.Validation("ParseColor", "unknown colour %q", s)
	}

	hex := name[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, qrerr.Validation("ParseColor", "malformed hex colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, qrerr.Validation("ParseColor", "malformed hex colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
