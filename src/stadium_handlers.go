package main

import (
	"log"
	"net/http"
	"stb/src/db"
	"stb/src/models"
	"stb/src/types"
	"stb/src/utils"

	"github.com/gin-gonic/gin"
)

func stadiumHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/stadiums", func(ctx *gin.Context) {
			var stadiums []models.Stadium
			db := db.GetDb()
			if err := db.
				Model(&models.Stadium{}).
				Order("name asc").
				Find(&stadiums).
				Error; err != nil {
				log.Printf("Error retrieving Stadiums: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stadiums})
		}).
		GET("/stadiums/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var stadium models.Stadium
			db := db.GetDb()
			if err := db.
				Where(&models.Stadium{ID: params.ID}).
				First(&stadium).
				Error; err != nil {
				log.Printf("Error retrieving Stadium [%d]: %s\n", params.ID, err.Error())
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stadium})
		})
	return g
}

func adminStadiumHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/stadiums", func(ctx *gin.Context) {
			var body types.CreateStadiumRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, err := utils.CreateNewStadium(&body)
			if err != nil {
				log.Printf("error creating stadium: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		})
	return g
}
