package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/live"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/scope"
	"github.com/gastromanager/dashboard/services"
	"github.com/gastromanager/dashboard/utils"
)

type ReservationController struct {
	DB   *gorm.DB
	Sync *services.Synchronizer
}

func NewReservationController(db *gorm.DB, sync *services.Synchronizer) *ReservationController {
	return &ReservationController{DB: db, Sync: sync}
}

// GetAllReservations lists reservations visible to the actor, by date
// ascending.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	actor := actorFrom(c)
	reservations := scope.Filter(rc.Sync.Snapshot().Reservations, actor, selectedRestaurant(c))
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		RestaurantID   uint   `json:"restaurant_id" binding:"required"`
		CustomerName   string `json:"customer_name" binding:"required"`
		CustomerPhone  string `json:"customer_phone"`
		CustomerEmail  string `json:"customer_email"`
		Date           string `json:"date" binding:"required"`
		Time           string `json:"time" binding:"required"`
		NumberOfPeople int    `json:"number_of_people" binding:"required"`
		Status         string `json:"status"`
		Notes          string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	status := req.Status
	if status == "" {
		status = models.ReservationPending
	}
	if !models.ValidReservationStatus(status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown reservation status"))
		return
	}

	reservation := models.Reservation{
		RestaurantID:   req.RestaurantID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		Date:           req.Date,
		Time:           req.Time,
		NumberOfPeople: req.NumberOfPeople,
		Status:         status,
		Notes:          req.Notes,
	}
	if err := rc.DB.Create(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.republish(reservation)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("reservation_id"))
	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		CustomerName   *string `json:"customer_name"`
		CustomerPhone  *string `json:"customer_phone"`
		CustomerEmail  *string `json:"customer_email"`
		Date           *string `json:"date"`
		Time           *string `json:"time"`
		NumberOfPeople *int    `json:"number_of_people"`
		Status         *string `json:"status"`
		Notes          *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CustomerName != nil {
		reservation.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		reservation.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		reservation.CustomerEmail = *req.CustomerEmail
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		reservation.Date = *req.Date
	}
	if req.Time != nil {
		reservation.Time = *req.Time
	}
	if req.NumberOfPeople != nil {
		reservation.NumberOfPeople = *req.NumberOfPeople
	}
	if req.Status != nil {
		if !models.ValidReservationStatus(*req.Status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown reservation status"))
			return
		}
		reservation.Status = *req.Status
	}
	if req.Notes != nil {
		reservation.Notes = *req.Notes
	}

	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.republish(reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// UpdateSchedule is the calendar drag path: it rewrites only the date
// and time of a reservation, nothing else.
func (rc *ReservationController) UpdateSchedule(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("reservation_id"))
	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Date string `json:"date" binding:"required"`
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	reservation.Date = req.Date
	reservation.Time = req.Time
	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.republish(reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation rescheduled", reservation)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("reservation_id"))
	if err := rc.DB.Delete(&models.Reservation{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.Sync.RemoveReservation(uint(id))
	live.BroadcastReservationDelete(uint(id))
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"reservation_id": id})
}

func (rc *ReservationController) republish(reservation models.Reservation) {
	rc.Sync.ApplyReservation(reservation)
	live.BroadcastReservationUpdate(reservation)
}
