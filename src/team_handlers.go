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

func teamHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/teams", func(ctx *gin.Context) {
			var teams []models.Team
			db := db.GetDb()
			if err := db.
				Model(&models.Team{}).
				Order("name asc").
				Find(&teams).
				Error; err != nil {
				log.Printf("Error retrieving Teams: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": teams})
		}).
		GET("/teams/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var team models.Team
			db := db.GetDb()
			if err := db.
				Where(&models.Team{ID: params.ID}).
				First(&team).
				Error; err != nil {
				log.Printf("Error retrieving Team [%d]: %s\n", params.ID, err.Error())
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": team})
		})
	return g
}

func adminTeamHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/teams", func(ctx *gin.Context) {
			var body types.CreateTeamRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, err := utils.CreateNewTeam(&body)
			if err != nil {
				log.Printf("error creating team: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		})
	return g
}
