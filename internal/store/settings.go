package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// RiderProfileKey is the settings key holding the rider profile document
const RiderProfileKey = "rider_profile"

// riderProfileVersion is the current schema version of the stored profile document
const riderProfileVersion = 2

// GetSetting retrieves a setting value by key
// Returns empty string if key doesn't exist
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM settings WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// storedRiderProfile is the on-disk document. Pointer fields distinguish a missing
// field (filled from defaults) from an explicit zero.
type storedRiderProfile struct {
	Version              int      `json:"version"`
	FTPWatts             *float64 `json:"ftpWatts,omitempty"`
	RiderWeightKg        *float64 `json:"riderWeightKg,omitempty"`
	BikeWeightKg         *float64 `json:"bikeWeightKg,omitempty"`
	CargoWeightKg        *float64 `json:"cargoWeightKg,omitempty"`
	FrontChainringTeeth  *float64 `json:"frontChainringTeeth,omitempty"`
	RearSprocketTeeth    *float64 `json:"rearSprocketTeeth,omitempty"`
	WheelCircumferenceMm *float64 `json:"wheelCircumferenceMm,omitempty"`
	MinCadenceRpm        *float64 `json:"minCadenceRpm,omitempty"`

	// Version 1 field names
	LegacyFTP        *float64 `json:"ftp,omitempty"`
	LegacyWeight     *float64 `json:"weight,omitempty"`
	LegacyBikeWeight *float64 `json:"bikeWeight,omitempty"`
	LegacyChainring  *float64 `json:"chainring,omitempty"`
	LegacySprocket   *float64 `json:"sprocket,omitempty"`
	LegacyWheel      *float64 `json:"wheelCircumference,omitempty"`
	LegacyCadence    *float64 `json:"cadence,omitempty"`
}

// GetRiderProfile loads the saved rider profile. Fields missing from the stored
// document (older versions or later additions) are taken from defaults.
func (s *Store) GetRiderProfile(defaults RiderProfile) (*RiderProfile, error) {
	raw, err := s.GetSetting(RiderProfileKey)
	if err != nil {
		return nil, fmt.Errorf("reading rider profile: %w", err)
	}
	if raw == "" {
		return nil, ErrNoRiderProfile
	}

	profile, err := decodeRiderProfile([]byte(raw), defaults)
	if err != nil {
		return nil, fmt.Errorf("decoding rider profile: %w", err)
	}
	return profile, nil
}

// SaveRiderProfile replaces the stored rider profile with p.
func (s *Store) SaveRiderProfile(p RiderProfile) error {
	doc := storedRiderProfile{
		Version:              riderProfileVersion,
		FTPWatts:             &p.FTPWatts,
		RiderWeightKg:        &p.RiderWeightKg,
		BikeWeightKg:         &p.BikeWeightKg,
		CargoWeightKg:        &p.CargoWeightKg,
		FrontChainringTeeth:  &p.FrontChainringTeeth,
		RearSprocketTeeth:    &p.RearSprocketTeeth,
		WheelCircumferenceMm: &p.WheelCircumferenceMm,
		MinCadenceRpm:        &p.MinCadenceRpm,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding rider profile: %w", err)
	}
	return s.SetSetting(RiderProfileKey, string(data))
}

func decodeRiderProfile(raw []byte, defaults RiderProfile) (*RiderProfile, error) {
	var doc storedRiderProfile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	// Version 1 documents stored the same values under shorter names
	if doc.Version < 2 {
		doc.FTPWatts = firstSet(doc.FTPWatts, doc.LegacyFTP)
		doc.RiderWeightKg = firstSet(doc.RiderWeightKg, doc.LegacyWeight)
		doc.BikeWeightKg = firstSet(doc.BikeWeightKg, doc.LegacyBikeWeight)
		doc.FrontChainringTeeth = firstSet(doc.FrontChainringTeeth, doc.LegacyChainring)
		doc.RearSprocketTeeth = firstSet(doc.RearSprocketTeeth, doc.LegacySprocket)
		doc.WheelCircumferenceMm = firstSet(doc.WheelCircumferenceMm, doc.LegacyWheel)
		doc.MinCadenceRpm = firstSet(doc.MinCadenceRpm, doc.LegacyCadence)
	}

	p := defaults
	setIfPresent(&p.FTPWatts, doc.FTPWatts)
	setIfPresent(&p.RiderWeightKg, doc.RiderWeightKg)
	setIfPresent(&p.BikeWeightKg, doc.BikeWeightKg)
	setIfPresent(&p.CargoWeightKg, doc.CargoWeightKg)
	setIfPresent(&p.FrontChainringTeeth, doc.FrontChainringTeeth)
	setIfPresent(&p.RearSprocketTeeth, doc.RearSprocketTeeth)
	setIfPresent(&p.WheelCircumferenceMm, doc.WheelCircumferenceMm)
	setIfPresent(&p.MinCadenceRpm, doc.MinCadenceRpm)
	return &p, nil
}

func firstSet(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func setIfPresent(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
