package main

import (
	"log"
	"net/http"
	"stb/src/db"
	"stb/src/models"
	"stb/src/types"

	"github.com/gin-gonic/gin"
)

// Gate endpoints. These stay unauthenticated so the scanner devices at the
// turnstiles can run without user accounts; every scan is recorded in the
// scan log either way.
func verificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets/verify/:code", func(ctx *gin.Context) {
			var params types.TicketCodeURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res, err := manager.Verify(ctx, params.Code)
			if err != nil {
				log.Printf("error verifying ticket [%s]: %s\n", params.Code, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			recordScan(ctx, params.Code, res.Outcome, false)
			if res.Outcome == types.OUTCOME_NOT_FOUND {
				ctx.JSON(http.StatusNotFound, gin.H{"valid": false, "message": outcomeMessage(res.Outcome)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"valid":   res.Outcome == types.OUTCOME_VALID,
				"message": outcomeMessage(res.Outcome),
				"ticket":  res.Ticket,
			})
		}).
		POST("/tickets/verify/:code", func(ctx *gin.Context) {
			var params types.TicketCodeURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res, err := manager.Consume(ctx, params.Code)
			if err != nil {
				log.Printf("error consuming ticket [%s]: %s\n", params.Code, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			recordScan(ctx, params.Code, res.Outcome, true)
			switch res.Outcome {
			case types.OUTCOME_VALID:
				ctx.JSON(http.StatusOK, gin.H{
					"success": true,
					"message": "Ticket accepted",
					"used_at": res.UsedAt,
				})
			case types.OUTCOME_NOT_FOUND:
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": outcomeMessage(res.Outcome)})
			case types.OUTCOME_ALREADY_USED:
				ctx.JSON(http.StatusConflict, gin.H{
					"success": false,
					"message": outcomeMessage(res.Outcome),
					"used_at": res.UsedAt,
				})
			default:
				ctx.JSON(http.StatusConflict, gin.H{"success": false, "message": outcomeMessage(res.Outcome)})
			}
		})
	return g
}

func outcomeMessage(outcome types.VerificationOutcome) string {
	switch outcome {
	case types.OUTCOME_VALID:
		return "Ticket is valid"
	case types.OUTCOME_NOT_FOUND:
		return "Ticket not found"
	case types.OUTCOME_ALREADY_USED:
		return "Ticket has already been used"
	case types.OUTCOME_CANCELLED:
		return "Ticket has been cancelled"
	case types.OUTCOME_EXPIRED:
		return "Ticket has expired"
	}
	return "Unknown outcome"
}

func recordScan(ctx *gin.Context, code string, outcome types.VerificationOutcome, consuming bool) {
	scan := models.ScanLog{
		Code:      code,
		Outcome:   outcome,
		Consuming: consuming,
	}
	if uid := ctx.GetUint("id"); uid > 0 {
		scan.ScannedBy = &uid
	}
	if err := db.GetDb().Create(&scan).Error; err != nil {
		log.Printf("Error writing scan log for [%s]: %s\n", code, err.Error())
	}
}
