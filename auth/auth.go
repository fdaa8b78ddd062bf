package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wordclimb/wordclimb-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminPassword = "admin123"

func secretKey() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("auth: JWT_SECRET_KEY not set")
	}
	return []byte(secret), nil
}

// CreateAdminToken mints a 24h admin session token for the username.
func CreateAdminToken(username string) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"username": username,
			"admin":    true,
			"exp":      time.Now().Add(time.Hour * 24).Unix(),
		})

	return token.SignedString(key)
}

// VerifyAdminToken parses the token and returns the admin username.
func VerifyAdminToken(tokenString string) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	if isAdmin, _ := claims["admin"].(bool); !isAdmin {
		return "", fmt.Errorf("not an admin token")
	}
	username, _ := claims["username"].(string)
	return username, nil
}

// EnsureAdminPassword seeds the single AdminAuth row when absent. The
// initial password comes from ADMIN_PASSWORD, falling back to the
// reference default.
func EnsureAdminPassword(db *gorm.DB) error {
	var existing models.AdminAuth
	err := db.First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}
	return SetAdminPassword(db, password)
}

// SetAdminPassword replaces (or creates) the stored password hash.
func SetAdminPassword(db *gorm.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var existing models.AdminAuth
	err = db.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&models.AdminAuth{PasswordHash: string(hash)}).Error
	}
	if err != nil {
		return err
	}

	existing.PasswordHash = string(hash)
	return db.Save(&existing).Error
}

// VerifyAdminPassword checks the password against the stored hash.
// False when no password has been set.
func VerifyAdminPassword(db *gorm.DB, password string) bool {
	var stored models.AdminAuth
	if err := db.First(&stored).Error; err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil
}
