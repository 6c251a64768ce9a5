package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"stb/src/config"
	"stb/src/db"
	"stb/src/models"
	"stb/src/types"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gosimple/slug"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func GenerateJWT(username string, userId uint, role string) (string, error) {
	claims := types.Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userId),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func CreateNewEvent(params *types.CreateEventRequestBody) (uint, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, params.Time)
	if err != nil {
		log.Printf("Error parsing time: %s\n", err.Error())
		return 0, err
	}
	event := models.Event{
		Name:       params.Name,
		Time:       dateTime,
		TeamHomeID: params.TeamHome,
		TeamAwayID: params.TeamAway,
		StadiumID:  params.StadiumID,
		Status:     types.EVENT_SCHEDULED,
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Team{}).
			Where("id IN (?)", []uint{params.TeamHome, params.TeamAway}).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count != 2 {
			return errors.New("both teams must exist")
		}
		if err := tx.Model(&models.Stadium{}).
			Where("id = ?", params.StadiumID).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count != 1 {
			return fmt.Errorf("stadium %d does not exist", params.StadiumID)
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

func CreateNewTeam(params *types.CreateTeamRequestBody) (uint, error) {
	team := models.Team{
		Name:    params.Name,
		Slug:    slug.Make(params.Name),
		LogoURL: params.LogoURL,
	}
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&team).Error
	}); err != nil {
		return 0, err
	}
	return team.ID, nil
}

func CreateNewStadium(params *types.CreateStadiumRequestBody) (uint, error) {
	stadium := models.Stadium{
		Name:          params.Name,
		AccessMotor:   params.AccessMotor,
		AccessMental:  params.AccessMental,
		AccessVisual:  params.AccessVisual,
		AccessHearing: params.AccessHearing,
	}
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&stadium).Error
	}); err != nil {
		return 0, err
	}
	return stadium.ID, nil
}

func GetUserTickets(userId uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	db := db.GetDb()
	err := db.
		Model(&models.Ticket{}).
		Where(&models.Ticket{UserID: userId}).
		Preload("Event").
		Preload("Event.TeamHome").
		Preload("Event.TeamAway").
		Preload("Event.Stadium").
		Order("purchase_date DESC").
		Find(&tickets).
		Error
	return tickets, err
}

// TicketQRCode renders the ticket code as a QR image the mobile wallet can
// display. The QR carries the bare ticket_uuid, same as the original app.
func TicketQRCode(code string) (string, error) {
	qrc, err := qrcode.New(code)
	if err != nil {
		return "", err
	}
	tempdir := os.Getenv("TEMP_DIR")
	if tempdir == "" {
		tempdir = os.TempDir()
	}
	filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", code))
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}
	return filepath, nil
}

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}
