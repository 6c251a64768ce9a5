package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"stb/src/db"
	"stb/src/lib"
	"stb/src/lib/mailer"
	"stb/src/models"
	"stb/src/tickets"
	"stb/src/types"
	"stb/src/utils"

	"github.com/gin-gonic/gin"
)

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			list, err := utils.GetUserTickets(userId)
			if err != nil {
				log.Printf("Error retrieving tickets for user [%d]: %s\n", userId, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list})
		}).
		POST("/tickets", func(ctx *gin.Context) {
			var body types.PurchaseTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.Quantity == 0 {
				body.Quantity = 1
			}
			userId := ctx.GetUint("id")
			issued, err := manager.Issue(ctx, body.EventID, userId, body.Category, body.Quantity)
			if err != nil {
				log.Printf("error purchasing tickets for event [%d]: %s\n", body.EventID, err.Error())
				switch {
				case errors.Is(err, tickets.ErrEventNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				case errors.Is(err, tickets.ErrInvalidCategory), errors.Is(err, tickets.ErrInvalidQuantity):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				default:
					ctx.Status(http.StatusInternalServerError)
				}
				return
			}
			if email := ctx.GetString("email"); email != "" {
				go sendPurchaseConfirmation(email, ctx.GetString("username"), &issued[0], len(issued))
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": issued})
		}).
		GET("/tickets/:code/qrcode", func(ctx *gin.Context) {
			var params types.TicketCodeURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var ticket models.Ticket
			if err := db.
				Where("ticket_uuid = ? AND user_id = ?", params.Code, userId).
				First(&ticket).
				Error; err != nil {
				log.Printf("Error retrieving Ticket [%s]: %s\n", params.Code, err.Error())
				ctx.Status(http.StatusNotFound)
				return
			}
			filepath, err := utils.TicketQRCode(params.Code)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.File(filepath)
		})
	return g
}

func adminTicketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/tickets/:code/cancel", func(ctx *gin.Context) {
			var params types.TicketCodeURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res, err := manager.Cancel(ctx, params.Code)
			if err != nil {
				log.Printf("error cancelling ticket [%s]: %s\n", params.Code, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if res.Outcome == types.OUTCOME_NOT_FOUND {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
				return
			}
			if !res.Transitioned && res.Outcome != types.OUTCOME_CANCELLED {
				ctx.JSON(http.StatusConflict, gin.H{"status": res.Outcome})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"status": res.Outcome})
		}).
		GET("/scans", func(ctx *gin.Context) {
			db := db.GetDb()
			var scans []models.ScanLog
			if err := db.
				Model(&models.ScanLog{}).
				Order("created_at desc").
				Limit(100).
				Find(&scans).
				Error; err != nil {
				log.Printf("Error retrieving scan log: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": scans})
		})
	return g
}

func sendPurchaseConfirmation(email, username string, first *models.Ticket, count int) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour purchase of %d %s ticket(s) is confirmed. Show the QR code in the app at the gate.\n",
		username, count, first.TicketType,
	)
	err := mailer.NewMailerMessage(&lib.SendMailInput{
		From:     lib.MailFrom(),
		FromName: "Matchday Tickets",
		To:       []string{email},
		Subject:  "Your tickets are confirmed",
		Body:     body,
	})
	if err != nil {
		log.Printf("Error sending purchase confirmation to [%s]: %s\n", email, err.Error())
	}
}
