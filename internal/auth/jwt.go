package auth

import (
	"fmt"
	"time"

	"galaxy-explorer/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

func getJWTSettings() (string, time.Duration, error) {
	cfg := config.GlobalConfig
	if cfg == nil {
		return "", 0, fmt.Errorf("configuration is not initialized")
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		return "", 0, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if len(secret) < 32 {
		return "", 0, fmt.Errorf("JWT_SECRET must be at least 32 characters long for security")
	}

	expiration := cfg.Auth.TokenExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return secret, expiration, nil
}

func GenerateJWT(explorerID int, username, email, role string) (string, error) {
	secret, expiration, err := getJWTSettings()
	if err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}

	now := time.Now()
	claims := Claims{
		ExplorerID: explorerID,
		Username:   username,
		Email:      email,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("explorer_%d", explorerID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateJWT(tokenString string) (*Claims, error) {
	secret, _, err := getJWTSettings()
	if err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
