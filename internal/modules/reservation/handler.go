package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RahulGusai/railway-booking-system/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tickets/book", h.BookTicket)
	rg.POST("/tickets/cancel/:id", h.CancelTicket)
	rg.GET("/tickets/booked", h.BookedTickets)
	rg.GET("/tickets/available", h.Availability)
}

func (h *Handler) BookTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ticket, err := h.service.BookTicket(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrWaitlistFull),
			errors.Is(err, ErrNoConfirmedSeat),
			errors.Is(err, ErrNoRACSeat):
			response.Error(c, http.StatusBadRequest, "TICKETS_UNAVAILABLE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to book ticket")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"ticket": toTicketView(ticket)})
}

func (h *Handler) CancelTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	if err := h.service.CancelTicket(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			response.Error(c, http.StatusNotFound, "TICKET_NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel ticket")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Ticket cancelled and promotions applied",
	})
}

func (h *Handler) BookedTickets(c *gin.Context) {
	tickets, err := h.service.BookedTickets(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tickets")
		return
	}

	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, toTicketView(&tickets[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"tickets": views})
}

func (h *Handler) Availability(c *gin.Context) {
	availability, err := h.service.Availability(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		return
	}
	response.Success(c, http.StatusOK, availability)
}
