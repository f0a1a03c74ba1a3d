package config

import "time"

// Play field - the visible area in world units, centered on the origin.
// Anything outside these half extents is off screen.
const (
	FieldHalfWidth  = 80.0
	FieldHalfHeight = 45.0
)

// Terminal rendering bounds. Larger terminals get a centered, bordered view.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Ship handling
const (
	ShipThrust        = 40.0 // units/s^2
	ShipTurnRate      = 4.5  // radians/s
	ShipMaxSpeed      = 35.0
	ShipDrag          = 0.6 // fraction of speed kept per second while coasting
	ShipRadius        = 2.0
	ShipFireCooldown  = 0.18 // seconds between shots
	PlayerBlinkFreq   = 10.0 // Hz
	AsteroidRadiusPer = 2.5  // world radius per unit of mass
	AlienRadius       = 3.0
)

// Bullets
const (
	BulletSpeed        = 70.0
	BulletLifetime     = 1.6 // seconds
	BulletRadius       = 0.5
	AlienBulletSpeed   = 45.0
	AlienLineOfFire    = 3.0 // clearance an alien shot needs past asteroids
	AlienRetreatDelay  = 4.0 // seconds the alien holds fire while the player is disabled
	AlienSteerResponse = 8.0 // velocity lerp rate
)

// Session
const (
	CreditsSeconds           = 12.0
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
	ShutdownDisplaySeconds   = 3.0
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)
