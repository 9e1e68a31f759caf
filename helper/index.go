package helper

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"os"
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetUserByEmail(e string) (*model.User, error) {
	db := database.DB
	var user model.User
	if err := db.Where(&model.User{Email: e}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func ValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = tokenClaim.UserId
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	claims["exp"] = time.Now().Add(time.Minute * 60).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = tokenClaim.UserId
	claims["email"] = tokenClaim.Email
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})

	return token, err
}

// GetInfoUserFromToken loads the authenticated user. Returns the claim plus
// isAdmin / isOwner role flags; a zero claim means unauthenticated.
func GetInfoUserFromToken(c *fiber.Ctx) (model.TokenClaim, bool, bool) {
	u := c.Locals("user")
	if u == nil {
		return model.TokenClaim{}, false, false
	}

	token, ok := u.(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}, false, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, false, false
	}

	userIdFloat, _ := claims["userId"].(float64)
	if userIdFloat == 0 {
		return model.TokenClaim{}, false, false
	}
	userId := uint(userIdFloat)

	var user model.User
	db := database.DB
	if err := db.First(&user, userId).Error; err != nil {
		log.Printf("User not found (id=%d): %v", userId, err)
		return model.TokenClaim{}, false, false
	}
	if !user.IsActive {
		return model.TokenClaim{}, false, false
	}

	c.Locals("account", &user)

	claim := model.TokenClaim{
		UserId: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
	return claim, user.Role == constants.ROLE_ADMIN, user.Role == constants.ROLE_OWNER
}

// CurrentUser returns the loaded user stashed by GetInfoUserFromToken, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	if u, ok := c.Locals("account").(*model.User); ok {
		return u
	}
	claim, _, _ := GetInfoUserFromToken(c)
	if claim.UserId == 0 {
		return nil
	}
	if u, ok := c.Locals("account").(*model.User); ok {
		return u
	}
	return nil
}

// OwnsVenue reports whether userId owns the venue.
func OwnsVenue(db *gorm.DB, userId, venueId uint) bool {
	var count int64
	db.Model(&model.Venue{}).Where("id = ? AND owner_id = ?", venueId, userId).Count(&count)
	return count > 0
}

// RequireLogin is a small guard used at the top of authenticated handlers.
func RequireLogin(c *fiber.Ctx) (*model.User, error) {
	user := CurrentUser(c)
	if user == nil {
		return nil, utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, errors.New("not logged in"))
	}
	return user, nil
}
