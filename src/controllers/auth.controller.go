package controllers

import (
	"errors"
	"log"
	"net/http"
	"stb/src/db"
	"stb/src/models"
	"stb/src/types"
	"stb/src/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Username: body.Username}).
		First(&user).
		Error; err != nil {
		log.Printf("error retrieving user [%s]: %s\n", body.Username, err.Error())
		return nil, http.StatusBadRequest, errors.New("incorrect credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return nil, http.StatusBadRequest, errors.New("incorrect credentials")
	}

	jwt, err := utils.GenerateJWT(user.Username, user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusOK, nil
}

func AuthRegister(ctx *gin.Context) (id uint, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return 0, http.StatusBadRequest, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, http.StatusInternalServerError, err
	}
	user := models.User{
		Username:     body.Username,
		Email:        body.Email,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		PasswordHash: string(hash),
	}

	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", body.Username, body.Email).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("a user with this username or email already exists")
		}
		return tx.Create(&user).Error
	}); err != nil {
		log.Printf("Error registering user [%s]: %s\n", body.Username, err.Error())
		return 0, http.StatusBadRequest, err
	}
	return user.ID, http.StatusCreated, nil
}
