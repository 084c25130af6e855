package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"giftwheel/internal/game"
	"giftwheel/internal/wheel"
)

// WheelConfig is the optional YAML file describing default players,
// prizes, specials and pacing.
type WheelConfig struct {
	Players    []string        `yaml:"players" validate:"max=100,dive,max=40"`
	Prizes     []string        `yaml:"prizes" validate:"max=200,dive,max=40"`
	Specials   []SpecialConfig `yaml:"specials" validate:"max=20,dive"`
	Layout     string          `yaml:"layout" validate:"omitempty,oneof=interleaved appended"`
	ExtraSpins int             `yaml:"extra_spins" validate:"gte=0,lte=20"`
	Pacing     PacingConfig    `yaml:"pacing"`
}

// SpecialConfig describes one bonus or malus segment.
type SpecialConfig struct {
	Code  string `yaml:"code" validate:"required,effectcode"`
	Label string `yaml:"label" validate:"required,max=40"`
	Kind  string `yaml:"kind" validate:"required,oneof=bonus malus"`
}

// PacingConfig controls how long each part of a spin stays on screen.
type PacingConfig struct {
	Spin    time.Duration `yaml:"spin" validate:"gte=0"`
	Step    time.Duration `yaml:"step" validate:"gte=0"`
	Confirm time.Duration `yaml:"confirm" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("effectcode", func(fl validator.FieldLevel) bool {
		return wheel.KnownCode(wheel.EffectCode(fl.Field().String()))
	})
	return v
}

// DefaultWheel returns the stock wheel: ten players, prizes "1".."10", the
// four standard specials.
func DefaultWheel() WheelConfig {
	defaults := game.DefaultSettings()
	specials := make([]SpecialConfig, 0, len(defaults.Specials))
	for _, s := range defaults.Specials {
		specials = append(specials, SpecialConfig{Code: string(s.Code), Label: s.Label, Kind: string(s.Kind)})
	}
	return WheelConfig{
		Players:    wheel.DefaultPlayers(),
		Prizes:     wheel.DefaultPrizes(),
		Specials:   specials,
		Layout:     string(defaults.Layout),
		ExtraSpins: defaults.ExtraSpins,
		Pacing: PacingConfig{
			Spin:    defaults.SpinDuration,
			Step:    defaults.StepDelay,
			Confirm: defaults.ConfirmDelay,
		},
	}
}

// LoadWheel reads path. A missing file yields the defaults; a file that
// does not parse or validate is an error. Fields left empty in the file keep
// their defaults.
func LoadWheel(path string) (WheelConfig, error) {
	cfg := DefaultWheel()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read wheel config: %w", err)
	}
	return ParseWheel(data)
}

// ParseWheel decodes YAML on top of the defaults and validates the result.
func ParseWheel(data []byte) (WheelConfig, error) {
	cfg := DefaultWheel()
	var file WheelConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse wheel config: %w", err)
	}
	if err := validate.Struct(file); err != nil {
		return cfg, fmt.Errorf("invalid wheel config: %w", err)
	}
	if len(file.Players) > 0 {
		cfg.Players = file.Players
	}
	if len(file.Prizes) > 0 {
		cfg.Prizes = file.Prizes
	}
	if file.Specials != nil {
		cfg.Specials = file.Specials
	}
	if file.Layout != "" {
		cfg.Layout = file.Layout
	}
	if file.ExtraSpins > 0 {
		cfg.ExtraSpins = file.ExtraSpins
	}
	if file.Pacing.Spin > 0 {
		cfg.Pacing.Spin = file.Pacing.Spin
	}
	if file.Pacing.Step > 0 {
		cfg.Pacing.Step = file.Pacing.Step
	}
	if file.Pacing.Confirm > 0 {
		cfg.Pacing.Confirm = file.Pacing.Confirm
	}
	return cfg, nil
}

// SpecialSlots converts the configured specials for the engine.
func (w WheelConfig) SpecialSlots() []wheel.SpecialSlot {
	out := make([]wheel.SpecialSlot, 0, len(w.Specials))
	for _, s := range w.Specials {
		out = append(out, wheel.SpecialSlot{
			Code:  wheel.EffectCode(s.Code),
			Label: s.Label,
			Kind:  wheel.Kind(s.Kind),
		})
	}
	return out
}

// GameSettings combines the wheel file with server limits.
func (w WheelConfig) GameSettings(c *Config) game.Settings {
	s := game.Settings{
		Specials:     w.SpecialSlots(),
		Layout:       wheel.Layout(w.Layout),
		ExtraSpins:   w.ExtraSpins,
		SpinDuration: w.Pacing.Spin,
		StepDelay:    w.Pacing.Step,
		ConfirmDelay: w.Pacing.Confirm,
	}
	if c != nil {
		s.MaxGames = c.MaxGames
		s.GameTTL = c.GameTTL
	}
	return s
}
