package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// WeatherSnapshot holds the four fields we expose from the weather provider.
type WeatherSnapshot struct {
	LastUpdated string  `json:"last_updated"`
	TempC       float64 `json:"temp_c"`
	Text        string  `json:"text"`
	FeelsLikeC  float64 `json:"feels_like_c"`
}

// Coordinates is a geolocation result for a client IP.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}
