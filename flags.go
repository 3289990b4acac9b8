package main

import (
	"github.com/spf13/pflag"

	"climbcheck/internal/store"
)

// riderFlags are per-invocation overrides for the rider profile
type riderFlags struct {
	ftp       float64
	weight    float64
	bike      float64
	cargo     float64
	chainring float64
	sprocket  float64
	wheel     float64
	cadence   float64
}

func (f *riderFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.ftp, "ftp", 0, "functional threshold power in watts")
	fs.Float64Var(&f.weight, "weight", 0, "rider weight in kg")
	fs.Float64Var(&f.bike, "bike-weight", 0, "bike weight in kg")
	fs.Float64Var(&f.cargo, "cargo", 0, "cargo weight in kg")
	fs.Float64Var(&f.chainring, "chainring", 0, "smallest front chainring teeth")
	fs.Float64Var(&f.sprocket, "sprocket", 0, "largest rear sprocket teeth")
	fs.Float64Var(&f.wheel, "wheel", 0, "wheel circumference in mm")
	fs.Float64Var(&f.cadence, "cadence", 0, "minimum sustainable cadence in rpm")
}

func (f *riderFlags) bindings() map[string]func(p *store.RiderProfile) {
	return map[string]func(p *store.RiderProfile){
		"ftp":         func(p *store.RiderProfile) { p.FTPWatts = f.ftp },
		"weight":      func(p *store.RiderProfile) { p.RiderWeightKg = f.weight },
		"bike-weight": func(p *store.RiderProfile) { p.BikeWeightKg = f.bike },
		"cargo":       func(p *store.RiderProfile) { p.CargoWeightKg = f.cargo },
		"chainring":   func(p *store.RiderProfile) { p.FrontChainringTeeth = f.chainring },
		"sprocket":    func(p *store.RiderProfile) { p.RearSprocketTeeth = f.sprocket },
		"wheel":       func(p *store.RiderProfile) { p.WheelCircumferenceMm = f.wheel },
		"cadence":     func(p *store.RiderProfile) { p.MinCadenceRpm = f.cadence },
	}
}

// changed reports whether any rider flag was given on the command line
func (f *riderFlags) changed(fs *pflag.FlagSet) bool {
	for name := range f.bindings() {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// apply returns base with every explicitly set flag copied over it
func (f *riderFlags) apply(fs *pflag.FlagSet, base store.RiderProfile) store.RiderProfile {
	for name, set := range f.bindings() {
		if fs.Changed(name) {
			set(&base)
		}
	}
	return base
}
