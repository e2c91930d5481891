package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/services"
	"github.com/yeremiapane/hostelcare/utils"
)

type DashboardController struct {
	RoomStatus *services.RoomStatusService
	Reports    *services.ReportService
}

func NewDashboardController(roomStatus *services.RoomStatusService, reports *services.ReportService) *DashboardController {
	return &DashboardController{RoomStatus: roomStatus, Reports: reports}
}

// GetRoomStatus returns the per-room cleaning overview.
func (dc *DashboardController) GetRoomStatus(c *gin.Context) {
	report, err := dc.RoomStatus.Report(c.Request.Context())
	if err != nil {
		utils.ErrorLogger.Printf("Error building room status: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, utils.ErrServer)
		return
	}

	utils.RespondJSON(c, http.StatusOK, report)
}

// ExportRoomStatus downloads the room-status report as xlsx (default) or pdf.
func (dc *DashboardController) ExportRoomStatus(c *gin.Context) {
	report, err := dc.RoomStatus.Report(c.Request.Context())
	if err != nil {
		utils.ErrorLogger.Printf("Error building room status: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, utils.ErrServer)
		return
	}

	buf, filename, mime, err := dc.Reports.Export(report, c.Query("format"))
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			utils.RespondError(c, http.StatusBadRequest, services.ErrUnsupportedFormat)
			return
		}
		utils.ErrorLogger.Printf("Error exporting room status: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, utils.ErrServer)
		return
	}

	utils.InfoLogger.Printf("Room status exported as %s (%d rooms)", filename, report.TotalRooms)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, buf.Bytes())
}
